package messages

import (
	"testing"

	"portal/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestReconcileSeenIDs(t *testing.T) {
	tests := []struct {
		name     string
		original []int64
		altered  []int64
		action   models.SeenAction
		want     []int64
	}{
		{"restore one", []int64{1, 2, 3}, []int64{1, 3}, models.ActionRestore, []int64{1, 3}},
		{"dismiss one", []int64{1, 2}, []int64{1, 2, 5}, models.ActionDismiss, []int64{1, 2, 5}},
		{"restore adjacent", []int64{1, 2, 3, 4}, []int64{1, 4}, models.ActionRestore, []int64{1, 4}},
		{"restore all", []int64{1, 2}, []int64{}, models.ActionRestore, []int64{}},
		{"dismiss keeps altered order", []int64{}, []int64{9, 7, 9}, models.ActionDismiss, []int64{9, 7}},
		{"dismiss nothing new", []int64{1, 2}, []int64{2}, models.ActionDismiss, []int64{1, 2}},
		{"unknown action", []int64{1}, []int64{}, models.SeenAction("archive"), []int64{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReconcileSeenIDs(tt.original, tt.altered, tt.action))
		})
	}
}

func TestDecodeSeenIDs(t *testing.T) {
	assert.Equal(t, []int64{3, 1}, DecodeSeenIDs([]any{3.0, 1.0}))
	assert.Equal(t, []int64{}, DecodeSeenIDs("1,2"))
	assert.Equal(t, []int64{}, DecodeSeenIDs([]any{1.0, "2"}))
	assert.Equal(t, []int64{}, DecodeSeenIDs(nil))
}
