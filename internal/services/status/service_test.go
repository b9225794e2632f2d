package status

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
)

type fakeTargets []string

func (f fakeTargets) Active() []string { return f }

type fakePool struct{ initialized bool }

func (p fakePool) IsInitialized() bool { return p.initialized }
func (p fakePool) GetPoolStats() map[string]interface{} {
	return map[string]interface{}{"initialized": p.initialized}
}

func TestService_State(t *testing.T) {
	logger := arbor.NewLogger()

	assert.Equal(t, StateOffline, NewService(fakeTargets(nil), nil, nil, logger).GetState())
	assert.Equal(t, StateOffline, NewService(fakeTargets(nil), fakePool{}, nil, logger).GetState())
	assert.Equal(t, StateIdle, NewService(fakeTargets(nil), fakePool{initialized: true}, nil, logger).GetState())
	assert.Equal(t, StateExporting, NewService(fakeTargets{"a"}, fakePool{initialized: true}, nil, logger).GetState())
}

func TestService_GetStatus(t *testing.T) {
	service := NewService(fakeTargets{"a", "b"}, fakePool{initialized: true}, nil, arbor.NewLogger())

	status := service.GetStatus(context.Background())
	assert.Equal(t, "exporting", status["state"])
	assert.Equal(t, 2, status["active_exports"])
	assert.Equal(t, []string{"a", "b"}, status["active_targets"])
	assert.Contains(t, status, "browser_pool")
	assert.NotContains(t, status, "quotations")
}

func TestService_Ready(t *testing.T) {
	logger := arbor.NewLogger()
	assert.False(t, NewService(fakeTargets(nil), nil, nil, logger).Ready())
	assert.True(t, NewService(fakeTargets{"a"}, fakePool{initialized: true}, nil, logger).Ready())
}
