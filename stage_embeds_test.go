package md2site

import (
	"context"
	"strings"
	"testing"
)

func newTestEmbedsStage(t *testing.T, options map[string]any) Stage {
	t.Helper()

	stage, err := newEmbedsStage(options)
	if err != nil {
		t.Fatalf("newEmbedsStage() error = %v", err)
	}
	return stage
}

// ----------------------------------------------------------------------
// TestEmbedsStage - Aspect-preserving containers around raw embeds

func TestEmbedsStage(t *testing.T) {
	t.Parallel()

	sc, _ := newTestStageContext(t, t.TempDir())
	stage := newTestEmbedsStage(t, nil)

	body := "Watch this.\n\n<iframe src=\"https://player.example/v/1\" width=\"560\" height=\"315\"></iframe>\n\nDone."
	got, err := stage.Transform(context.Background(), sc, body)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	for _, marker := range []string{
		`<div class="embed-responsive"`,
		`padding-bottom:56.25%`,
		`class="embed-responsive-item"`,
		`src="https://player.example/v/1"`,
		`</iframe></div>`,
	} {
		if !strings.Contains(got, marker) {
			t.Errorf("output missing %q in %q", marker, got)
		}
	}
	if !strings.Contains(got, "Watch this.") || !strings.Contains(got, "Done.") {
		t.Errorf("surrounding prose should survive, got %q", got)
	}
}

func TestEmbedsStageIdempotent(t *testing.T) {
	t.Parallel()

	sc, _ := newTestStageContext(t, t.TempDir())
	stage := newTestEmbedsStage(t, nil)

	body := "<iframe src=\"https://player.example/v/1\" width=\"560\" height=\"315\"></iframe>"
	once, err := stage.Transform(context.Background(), sc, body)
	if err != nil {
		t.Fatalf("first Transform() error = %v", err)
	}
	twice, err := stage.Transform(context.Background(), sc, once)
	if err != nil {
		t.Fatalf("second Transform() error = %v", err)
	}
	if twice != once {
		t.Errorf("double application changed output:\nonce:  %q\ntwice: %q", once, twice)
	}
	if strings.Count(twice, "embed-responsive\"") != 1 {
		t.Errorf("embed should be wrapped exactly once, got %q", twice)
	}
}

func TestEmbedsStageAspectRatio(t *testing.T) {
	t.Parallel()

	sc, _ := newTestStageContext(t, t.TempDir())

	tests := []struct {
		name    string
		options map[string]any
		body    string
		want    string
	}{
		{
			name: "computed from dimensions",
			body: `<iframe src="x" width="400" height="300"></iframe>`,
			want: "padding-bottom:75%",
		},
		{
			name: "missing dimensions fall back",
			body: `<iframe src="x"></iframe>`,
			want: "padding-bottom:56.25%",
		},
		{
			name: "percentage width falls back",
			body: `<iframe src="x" width="100%" height="300"></iframe>`,
			want: "padding-bottom:56.25%",
		},
		{
			name:    "configured fallback",
			options: map[string]any{"defaultAspectRatio": 75.0},
			body:    `<iframe src="x"></iframe>`,
			want:    "padding-bottom:75%",
		},
		{
			name: "void embed element",
			body: `<embed src="movie.swf" width="100" height="50">`,
			want: "padding-bottom:50%",
		},
		{
			name: "object element",
			body: `<object data="movie.swf" width="400" height="300"></object>`,
			want: "padding-bottom:75%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stage := newTestEmbedsStage(t, tt.options)
			got, err := stage.Transform(context.Background(), sc, tt.body)
			if err != nil {
				t.Fatalf("Transform() error = %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Transform() = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestEmbedsStageWrapperStyle(t *testing.T) {
	t.Parallel()

	sc, _ := newTestStageContext(t, t.TempDir())
	stage := newTestEmbedsStage(t, map[string]any{"wrapperStyle": "background:#000;"})

	got, err := stage.Transform(context.Background(), sc, `<iframe src="x"></iframe>`)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	if !strings.Contains(got, "padding-bottom:56.25%;background:#000") {
		t.Errorf("wrapper style should be appended, got %q", got)
	}
}

func TestEmbedsStageLeavesAlone(t *testing.T) {
	t.Parallel()

	sc, _ := newTestStageContext(t, t.TempDir())
	stage := newTestEmbedsStage(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "plain prose", body: "No embeds here."},
		{name: "non embeddable tag", body: `<video src="clip.mp4"></video>`},
		{name: "inside fenced code", body: "```html\n<iframe src=\"x\"></iframe>\n```"},
		{name: "inside inline code", body: "write `<iframe>` to embed"},
		{name: "unterminated element", body: `<iframe src="x">`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := stage.Transform(context.Background(), sc, tt.body)
			if err != nil {
				t.Fatalf("Transform() error = %v", err)
			}
			if got != tt.body {
				t.Errorf("Transform() = %q, want unchanged %q", got, tt.body)
			}
		})
	}
}

// ----------------------------------------------------------------------
// TestFormatPercent - CSS percentage formatting

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 56.25, want: "56.25%"},
		{ratio: 75, want: "75%"},
		{ratio: 50.0, want: "50%"},
		{ratio: 100.0 * 200.0 / 300.0, want: "66.67%"},
	}

	for _, tt := range tests {
		if got := formatPercent(tt.ratio); got != tt.want {
			t.Errorf("formatPercent(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}
