package rovem_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/rovem-ai/rovem"
)

func TestCallLifecycle(t *testing.T) {
	t.Run("advances to a result", func(t *testing.T) {
		call := rovem.NewToolCall("c1", "navigate")
		gt.Equal(t, call.State(), rovem.CallStateStreaming)
		gt.False(t, call.State().Terminal())

		gt.NoError(t, call.TestMarkReady(map[string]any{"url": "https://example.com"}))
		gt.Equal(t, call.State(), rovem.CallStateReady)
		gt.Equal(t, call.Args["url"], "https://example.com")

		gt.NoError(t, call.TestSucceed(map[string]any{"success": true}))
		gt.Equal(t, call.State(), rovem.CallStateDone)
		gt.True(t, call.State().Terminal())
		gt.False(t, call.Failed())
		gt.Equal(t, call.Result["success"], true)
		gt.True(t, call.Duration > 0)
	})

	t.Run("advances to an error", func(t *testing.T) {
		call := rovem.NewToolCall("c2", "click")
		gt.NoError(t, call.TestMarkReady(nil))

		cause := errors.New("element not found")
		gt.NoError(t, call.TestFail(rovem.CallErrorExecutor, cause))
		gt.Equal(t, call.State(), rovem.CallStateFailed)
		gt.True(t, call.State().Terminal())
		gt.True(t, call.Failed())
		gt.Equal(t, call.ErrKind, rovem.CallErrorExecutor)
		gt.True(t, errors.Is(call.Err, cause))
		gt.True(t, call.Duration > 0)
	})
}

func TestCallInvalidTransitions(t *testing.T) {
	t.Run("output states need complete input", func(t *testing.T) {
		call := rovem.NewToolCall("c1", "navigate")

		err := call.TestSucceed(map[string]any{})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, rovem.ErrInvalidCallState))

		err = call.TestFail(rovem.CallErrorExecutor, errors.New("boom"))
		gt.Error(t, err)
		gt.True(t, errors.Is(err, rovem.ErrInvalidCallState))

		gt.Equal(t, call.State(), rovem.CallStateStreaming)
	})

	t.Run("input closes only once", func(t *testing.T) {
		call := rovem.NewToolCall("c1", "navigate")
		gt.NoError(t, call.TestMarkReady(nil))

		err := call.TestMarkReady(map[string]any{"url": "https://example.com"})
		gt.Error(t, err)
		gt.True(t, errors.Is(err, rovem.ErrInvalidCallState))
	})

	t.Run("terminal states are final", func(t *testing.T) {
		call := rovem.NewToolCall("c1", "navigate")
		gt.NoError(t, call.TestMarkReady(nil))
		gt.NoError(t, call.TestSucceed(nil))

		gt.Error(t, call.TestSucceed(nil))
		gt.Error(t, call.TestFail(rovem.CallErrorExecutor, errors.New("boom")))
		gt.Error(t, call.TestMarkReady(nil))
		gt.Equal(t, call.State(), rovem.CallStateDone)
	})
}
