package pipewire

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pwsync/pwsync-go/pkg/spa"
)

type recordingListener struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingListener) OnInfo(info *InfoEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "info:"+info.Props["seq"])
}

func (r *recordingListener) OnParam(param *ParamEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "param:"+param.ID.String())
}

func (r *recordingListener) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestInboxDeliversInOrder(t *testing.T) {
	target := &recordingListener{}
	inbox := NewInbox(target, 2)
	inbox.Start()
	defer inbox.Stop()

	inbox.OnInfo(&InfoEvent{Props: map[string]string{"seq": "1"}})
	inbox.OnParam(&ParamEvent{ID: spa.ParamProps})
	inbox.OnInfo(&InfoEvent{Props: map[string]string{"seq": "2"}})
	inbox.Sync()

	assert.Equal(t, []string{"info:1", "param:" + spa.ParamProps.String(), "info:2"}, target.snapshot())
}

func TestInboxStopDrains(t *testing.T) {
	target := &recordingListener{}
	inbox := NewInbox(target, 8)
	for i := range 3 {
		assert.True(t, inbox.Post(InfoMessage{Info: &InfoEvent{Props: map[string]string{"seq": string(rune('a' + i))}}}))
	}

	// Stop starts delivery if needed and waits for it.
	inbox.Stop()
	assert.Equal(t, []string{"info:a", "info:b", "info:c"}, target.snapshot())

	assert.False(t, inbox.Post(InfoMessage{Info: &InfoEvent{}}))
	inbox.Sync()
	inbox.Stop()
}
