package llmcall

import (
	"sync"

	"github.com/examtools/paperparse/internal/providers"
)

// Recorder accumulates calls for one document run. Safe for concurrent
// use; the pipeline owns one recorder per document.
type Recorder struct {
	mu    sync.Mutex
	calls []*Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record captures a model result.
func (r *Recorder) Record(result *providers.ChatResult, opts RecordOptions) {
	call := FromChatResult(result, opts)
	if call == nil {
		return
	}
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

// Calls returns a snapshot of everything recorded so far, in record order.
func (r *Recorder) Calls() []*Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Call, len(r.calls))
	copy(out, r.calls)
	return out
}
