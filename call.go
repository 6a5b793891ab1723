package rovem

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// CallState is the lifecycle state of a tool call. States only advance:
// input-streaming, then input-available, then output-available or
// output-error. Output states are reachable only from input-available.
type CallState string

const (
	// CallStateStreaming means the call's arguments are still arriving.
	CallStateStreaming CallState = "input-streaming"

	// CallStateReady means the arguments are complete and the call can run.
	CallStateReady CallState = "input-available"

	// CallStateDone means the call produced a result.
	CallStateDone CallState = "output-available"

	// CallStateFailed means the call terminated with an error.
	CallStateFailed CallState = "output-error"
)

// Terminal reports whether the state is an output state.
func (s CallState) Terminal() bool {
	return s == CallStateDone || s == CallStateFailed
}

// CallErrorKind classifies why a call failed.
type CallErrorKind string

const (
	// CallErrorUnknownTool means the model named a tool the registry does
	// not hold. Such calls fail permanently without a repair attempt.
	CallErrorUnknownTool CallErrorKind = "unknown_tool"

	// CallErrorInvalidArgs means the arguments failed schema validation
	// even after the single repair attempt.
	CallErrorInvalidArgs CallErrorKind = "invalid_args"

	// CallErrorExecutor means the tool itself failed.
	CallErrorExecutor CallErrorKind = "executor"
)

// ToolCall is one action call owned by a run. It is created when the model
// starts emitting the call and advances monotonically through its states.
type ToolCall struct {
	ID        string
	Name      string
	Args      map[string]any
	StartedAt time.Time

	state    CallState
	Duration time.Duration
	Result   map[string]any
	Err      error
	ErrKind  CallErrorKind
}

func newToolCall(id, name string) *ToolCall {
	return &ToolCall{
		ID:        id,
		Name:      name,
		StartedAt: time.Now(),
		state:     CallStateStreaming,
	}
}

// State returns the current lifecycle state.
func (c *ToolCall) State() CallState {
	return c.state
}

// Failed reports whether the call terminated with an error.
func (c *ToolCall) Failed() bool {
	return c.state == CallStateFailed
}

// markReady records the completed arguments and advances the call to
// input-available.
func (c *ToolCall) markReady(args map[string]any) error {
	if c.state != CallStateStreaming {
		return goerr.Wrap(ErrInvalidCallState, "call is not streaming", goerr.V("call_id", c.ID), goerr.V("state", string(c.state)))
	}
	c.Args = args
	c.state = CallStateReady
	return nil
}

// succeed records the result and advances the call to output-available.
func (c *ToolCall) succeed(result map[string]any) error {
	if c.state != CallStateReady {
		return goerr.Wrap(ErrInvalidCallState, "call is not ready", goerr.V("call_id", c.ID), goerr.V("state", string(c.state)))
	}
	c.Result = result
	c.Duration = time.Since(c.StartedAt)
	c.state = CallStateDone
	return nil
}

// fail records the error and advances the call to output-error.
func (c *ToolCall) fail(kind CallErrorKind, err error) error {
	if c.state != CallStateReady {
		return goerr.Wrap(ErrInvalidCallState, "call is not ready", goerr.V("call_id", c.ID), goerr.V("state", string(c.state)))
	}
	c.Err = err
	c.ErrKind = kind
	c.Duration = time.Since(c.StartedAt)
	c.state = CallStateFailed
	return nil
}

// view renders the call for the run message in the conversation store.
func (c *ToolCall) view() CallContent {
	return CallContent{ID: c.ID, Name: c.Name, Args: c.Args, State: c.state}
}

// resultContent renders the call's terminal outcome for a tool message.
func (c *ToolCall) resultContent() ResultContent {
	rc := ResultContent{ID: c.ID, Name: c.Name, Data: c.Result}
	if c.Err != nil {
		rc.Error = c.Err.Error()
	}
	return rc
}
