package restyutil

import (
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type instrumentCtx struct {
	output    InstrumentOutput
	idcounter *uint64
}

// dumps every request/response pair going through `client` to `output`
// for offline inspection. `output` can be nil, in which case the
// function is a no-op.
func InstrumentClient(client *resty.Client, output InstrumentOutput) {
	if output == nil {
		return
	}

	var idcounter uint64
	i := instrumentCtx{output: output, idcounter: &idcounter}
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	messageId := strconv.FormatUint(atomic.AddUint64(i.idcounter, 1), 10)
	i.output.Write(messageId, formatHttpMessage(res))
	slog.DebugContext(
		res.Request.Context(), "request succeeded",
		"method", res.Request.Method,
		"url", res.Request.URL,
		"message_id", messageId,
	)
	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	slog.ErrorContext(
		req.Context(), "request failed",
		"method", req.Method,
		"url", req.URL,
		"err", err,
	)
}
