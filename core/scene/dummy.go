package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/benji-bou/annocfg/core/convert"
	"github.com/benji-bou/annocfg/core/proptree"
)

var ErrNoNumericSuffix = errors.New("dummy name has no numeric suffix")

const (
	dummyPrefix      = "Dummy_"
	animationsPrefix = "ANIMATIONS_"
	animationPrefix  = "ANIMATION_"
	modelPrefix      = "MODEL_"
	animationsTag    = "Animations"
)

// DuplicateDummy copies a dummy next to the original and bumps the number
// ending its Name property, so "dummy_41" becomes "dummy_42".
func (a *Arena) DuplicateDummy(id ObjectID) (*Object, error) {
	o, err := a.get(id)
	if err != nil {
		return nil, err
	}
	name := o.Properties.StringOr("Name", "")
	head, n, ok := splitNumber(name)
	if !ok {
		return nil, fmt.Errorf("duplicate %s: %w: %q", o.Name, ErrNoNumericSuffix, name)
	}
	name = head + strconv.Itoa(n+1)
	props := o.Properties.Clone()
	if err := props.Set("Name", name, true); err != nil {
		return nil, fmt.Errorf("duplicate %s: %w", o.Name, err)
	}
	dup, err := a.Add(o.Parent, o.Class, dummyPrefix+name, props)
	if err != nil {
		return nil, fmt.Errorf("duplicate %s: %w", o.Name, err)
	}
	return dup, nil
}

// ExtractAnimations moves the Animations block of a model into an animations
// container object holding one Animation object per entry. Each entry is
// tagged with the model's FileName and its index in the block. A model
// without animations returns nil.
func (a *Arena) ExtractAnimations(id ObjectID) (*Object, error) {
	model, err := a.get(id)
	if err != nil {
		return nil, err
	}
	block, ok := model.Properties.Child(animationsTag)
	if !ok {
		return nil, nil
	}
	suffix := strings.TrimPrefix(model.Name, modelPrefix)
	container, err := a.Add(model.ID, ClassAnimations, animationsPrefix+suffix, proptree.New(animationsTag, a.conv))
	if err != nil {
		return nil, fmt.Errorf("extract animations of %s: %w", model.Name, err)
	}
	fileName := model.Properties.StringOr("FileName", "")
	for i, entry := range block.Children() {
		props := entry.Clone()
		props.SetValue("ModelFileName", convert.StringValue(fileName), false)
		props.SetValue("AnimationIndex", convert.IntValue(int64(i)), false)
		name := fmt.Sprintf("%s%s_%d", animationPrefix, suffix, i)
		if _, err := a.Add(container.ID, ClassAnimation, name, props); err != nil {
			return nil, fmt.Errorf("extract animations of %s: %w", model.Name, err)
		}
	}
	model.Properties.RemoveChild(animationsTag)
	slog.Debug("extracted animations", "model", model.Name, "count", len(container.Children))
	return container, nil
}

// ExtractAllAnimations runs ExtractAnimations on every model below root and
// returns the number of containers created.
func (a *Arena) ExtractAllAnimations(root ObjectID) (int, error) {
	var models []ObjectID
	if err := a.Walk(root, func(o *Object) bool {
		if o.Class == ClassModel {
			models = append(models, o.ID)
		}
		return true
	}); err != nil {
		return 0, err
	}
	count := 0
	for _, id := range models {
		c, err := a.ExtractAnimations(id)
		if err != nil {
			return count, err
		}
		if c != nil {
			count++
		}
	}
	return count, nil
}
