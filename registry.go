package md2site

import (
	"fmt"
	"sort"

	"github.com/alnah/go-md2site/internal/hints"
)

// stageFactory builds a configured stage from its option map. Factories
// must consume every option they understand and report leftovers.
type stageFactory func(options map[string]any) (Stage, error)

var stageRegistry = map[string]stageFactory{
	"images":     newImagesStage,
	"embeds":     newEmbedsStage,
	"highlight":  newHighlightStage,
	"emoji":      newEmojiStage,
	"typography": newTypographyStage,
	"copy-files": newCopyFilesStage,
}

// StageNames returns every registered stage name in sorted order.
func StageNames() []string {
	names := make([]string, 0, len(stageRegistry))
	for name := range stageRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CompileStages turns configured specs into runnable stages, preserving
// order and duplicates. A name with no registered factory or an invalid
// option set fails the whole compilation.
func CompileStages(specs []StageSpec) ([]Stage, error) {
	stages := make([]Stage, 0, len(specs))
	for _, spec := range specs {
		factory, ok := stageRegistry[spec.Name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown stage %q%s",
				ErrStageConfiguration, spec.Name, hints.ForStageNotFound(StageNames()))
		}
		stage, err := factory(spec.Options)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}
	return stages, nil
}
