package md2site

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/alnah/go-md2site/internal/assets"
)

// Stage is one named transform in the body pipeline. Stages receive
// markdown and return markdown; the rendered HTML is produced once,
// after the whole chain ran.
type Stage interface {
	Name() string
	Transform(ctx context.Context, sc *StageContext, body string) (string, error)
}

// StageContext carries per-document state into a transform. A stage
// sees one document at a time and never other documents.
type StageContext struct {
	Collection string
	Slug       string
	SourceDir  string // directory of the source file; relative refs resolve here first
	Assets     *assets.Store
	Logger     *slog.Logger

	// RecordAsset notes a published public path on the owning document.
	RecordAsset func(publicPath string)
}

// PublishLocal resolves a body reference, publishes the file through the
// shared store and records it on the document. Returns the public path.
func (sc *StageContext) PublishLocal(ref string) (string, error) {
	abs, err := sc.Assets.Resolve(sc.SourceDir, ref)
	if err != nil {
		return "", err
	}
	public, err := sc.Assets.Publish(abs)
	if err != nil {
		return "", err
	}
	if sc.RecordAsset != nil {
		sc.RecordAsset(public)
	}
	return public, nil
}

// stageOptions reads typed values out of a stage's option map. The first
// type mismatch and any unrecognized key surface as ErrStageConfiguration
// through Err(), so option typos fail the build before any document is
// processed.
type stageOptions struct {
	stage  string
	values map[string]any
	seen   map[string]struct{}
	err    error
}

func newStageOptions(stage string, values map[string]any) *stageOptions {
	return &stageOptions{
		stage:  stage,
		values: values,
		seen:   make(map[string]struct{}, len(values)),
	}
}

func (o *stageOptions) fail(format string, args ...any) {
	if o.err == nil {
		args = append([]any{ErrStageConfiguration, o.stage}, args...)
		o.err = fmt.Errorf("%w: stage %s: "+format, args...)
	}
}

func (o *stageOptions) lookup(key string) (any, bool) {
	o.seen[key] = struct{}{}
	v, ok := o.values[key]
	return v, ok
}

// String reads a string option, returning def when absent.
func (o *stageOptions) String(key, def string) string {
	v, ok := o.lookup(key)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		o.fail("option %s must be a string, got %T", key, v)
		return def
	}
	return s
}

// Bool reads a bool option, returning def when absent.
func (o *stageOptions) Bool(key string, def bool) bool {
	v, ok := o.lookup(key)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		o.fail("option %s must be a bool, got %T", key, v)
		return def
	}
	return b
}

// Int reads an integer option. YAML decoding may deliver any numeric
// type, so integral floats are accepted.
func (o *stageOptions) Int(key string, def int) int {
	v, ok := o.lookup(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
		o.fail("option %s must be an integer, got %v", key, n)
	default:
		o.fail("option %s must be an integer, got %T", key, v)
	}
	return def
}

// Float reads a float option, accepting any numeric YAML shape.
func (o *stageOptions) Float(key string, def float64) float64 {
	v, ok := o.lookup(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		o.fail("option %s must be a number, got %T", key, v)
	}
	return def
}

// StringMap reads a map option with string keys and scalar values.
func (o *stageOptions) StringMap(key string) map[string]string {
	v, ok := o.lookup(key)
	if !ok {
		return nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		o.fail("option %s must be a mapping, got %T", key, v)
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, item := range raw {
		switch s := item.(type) {
		case string:
			out[k] = s
		case bool, int, int64, uint64, float64:
			out[k] = fmt.Sprint(s)
		default:
			o.fail("option %s[%s] must be a scalar, got %T", key, k, item)
			return nil
		}
	}
	return out
}

// StringSlice reads a list option of scalar items.
func (o *stageOptions) StringSlice(key string, def []string) []string {
	v, ok := o.lookup(key)
	if !ok {
		return def
	}
	raw, ok := v.([]any)
	if !ok {
		o.fail("option %s must be a list, got %T", key, v)
		return def
	}
	out := make([]string, 0, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			o.fail("option %s[%d] must be a string, got %T", key, i, item)
			return def
		}
		out = append(out, s)
	}
	return out
}

// Err reports the first type error or any unrecognized option key.
func (o *stageOptions) Err() error {
	if o.err != nil {
		return o.err
	}

	var unknown []string
	for key := range o.values {
		if _, ok := o.seen[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: stage %s: unknown option %q", ErrStageConfiguration, o.stage, unknown[0])
	}
	return nil
}
