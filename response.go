package humble

import (
	"encoding/json"
	"net/http"
)

type resultEnvelope struct {
	Result any `json:"result"`
}

type errorEnvelope struct {
	Error *Error `json:"error"`
}

func writeResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resultEnvelope{Result: result}); err != nil {
		// Headers are already sent; nothing useful can be written now.
		return
	}
}

func writeError(w http.ResponseWriter, e *Error, config HandlerConfig) {
	if config.MaskInternalErrors && e.Code == CodeInternal {
		e = NewError(CodeInternal, "internal error")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus(e.Code))
	_ = json.NewEncoder(w).Encode(errorEnvelope{Error: e})
}
