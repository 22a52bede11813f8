package filtergraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/BitEU/Hashbrown/internal/segment"
)

func TestEnableExpr(t *testing.T) {
	tests := []struct {
		name string
		segs []segment.Segment
		want string
	}{
		{"empty", nil, "0"},
		{"single", []segment.Segment{{Start: 62, End: 70}}, "between(t,62,70)"},
		{"fractional", []segment.Segment{{Start: 1.5, End: 2.25}}, "between(t,1.5,2.25)"},
		{
			"multiple keep order",
			[]segment.Segment{{Start: 0, End: 5}, {Start: 10, End: 20}, {Start: 3600, End: 3601}},
			"between(t,0,5)+between(t,10,20)+between(t,3600,3601)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EnableExpr(tt.segs))
		})
	}
}

func TestCompile(t *testing.T) {
	segs := []segment.Segment{{Start: 5, End: 10}, {Start: 20, End: 25}}
	expr := "between(t,5,10)+between(t,20,25)"

	tests := []struct {
		name string
		opts Options
		want Graph
	}{
		{
			name: "overlay and audio",
			opts: Options{Overlay: true, IconX: 5, IconY: 5, Audio: true},
			want: Graph{
				Complex: "[0:v][1:v]overlay=5:5:enable='" + expr + "'[v_out];" +
					"[0:a]volume=enable='" + expr + "':volume=0[a_out]",
				VideoLabel: "[v_out]",
				AudioLabel: "[a_out]",
			},
		},
		{
			name: "overlay without audio stream",
			opts: Options{Overlay: true, IconX: 12, IconY: 0},
			want: Graph{
				Complex:    "[0:v][1:v]overlay=12:0:enable='" + expr + "'[v_out]",
				VideoLabel: "[v_out]",
			},
		},
		{
			name: "audio only",
			opts: Options{Audio: true},
			want: Graph{
				Complex:    "[0:a]volume=enable='" + expr + "':volume=0[a_out]",
				AudioLabel: "[a_out]",
			},
		},
		{
			name: "nothing to do",
			opts: Options{},
			want: Graph{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compile(segs, tt.opts)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGraphPredicates(t *testing.T) {
	segs := []segment.Segment{{Start: 1, End: 2}}
	assert.True(t, Compile(segs, Options{}).Empty())
	assert.False(t, Compile(segs, Options{Overlay: true}).Empty())
}

func TestAudioFilter(t *testing.T) {
	got := AudioFilter([]segment.Segment{{Start: 0.5, End: 3}})
	assert.Equal(t, "volume=enable='between(t,0.5,3)':volume=0", got)
}
