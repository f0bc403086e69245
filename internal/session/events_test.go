package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestAnswerContextResolve(t *testing.T) {
	tests := []struct {
		name   string
		ctx    AnswerContext
		count  int
		want   int
		wantOK bool
	}{
		{name: "empty", ctx: AnswerContext{}, count: 4, want: 0, wantOK: false},
		{name: "number", ctx: AnswerContext{Number: intPtr(2)}, count: 4, want: 2, wantOK: true},
		{name: "any", ctx: AnswerContext{Any: intPtr(3)}, count: 4, want: 3, wantOK: true},
		{name: "ordinal", ctx: AnswerContext{Ordinal: intPtr(1)}, count: 4, want: 1, wantOK: true},
		{name: "last", ctx: AnswerContext{Last: true}, count: 4, want: 4, wantOK: true},
		{name: "middle even", ctx: AnswerContext{Middle: true}, count: 4, want: 3, wantOK: true},
		{name: "middle odd", ctx: AnswerContext{Middle: true}, count: 3, want: 2, wantOK: true},
		{
			name:   "number beats any and ordinal",
			ctx:    AnswerContext{Number: intPtr(1), Any: intPtr(2), Ordinal: intPtr(3)},
			count:  4,
			want:   1,
			wantOK: true,
		},
		{
			name:   "any beats ordinal",
			ctx:    AnswerContext{Any: intPtr(2), Ordinal: intPtr(3)},
			count:  4,
			want:   2,
			wantOK: true,
		},
		{
			name:   "ordinal beats positional",
			ctx:    AnswerContext{Ordinal: intPtr(3), Last: true, Middle: true},
			count:  4,
			want:   3,
			wantOK: true,
		},
		{
			name:   "last beats middle",
			ctx:    AnswerContext{Last: true, Middle: true},
			count:  5,
			want:   5,
			wantOK: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.ctx.Resolve(tc.count)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}
