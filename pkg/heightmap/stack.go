package heightmap

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"landscape/internal/logger"
	"landscape/internal/util"
	"landscape/pkg/config"
)

// Entry is a layer's slot in a stack. Index always equals its position.
type Entry struct {
	ID    uuid.UUID
	Index int
	Layer Layer
}

// Stack is an ordered, mutable list of layers applied first to last
type Stack struct {
	entries []*Entry
	log     *logger.Logger
}

// NewStack creates an empty stack; a nil logger discards output
func NewStack(log *logger.Logger) *Stack {
	if log == nil {
		log = logger.Nop()
	}
	return &Stack{log: log.With("layers")}
}

// NewStackFromConfig builds a stack from config layers, adding seed to every noise seed
func NewStackFromConfig(layers []config.LayerConfig, seed int64, log *logger.Logger) (*Stack, error) {
	s := NewStack(log)
	for i, lc := range layers {
		layer, err := LayerFromConfig(lc, seed)
		if err != nil {
			return nil, fmt.Errorf("failed to build layer %d: %w", i, err)
		}
		s.Add(layer)
	}
	return s, nil
}

// reindex restores Index == position from start onwards
func (s *Stack) reindex(start int) {
	for i := start; i < len(s.entries); i++ {
		s.entries[i].Index = i
	}
}

// Add appends a layer
func (s *Stack) Add(layer Layer) *Entry {
	e := &Entry{ID: uuid.New(), Index: len(s.entries), Layer: layer}
	s.entries = append(s.entries, e)
	return e
}

// Insert places a layer at index, shifting later layers down. index may equal Len.
func (s *Stack) Insert(index int, layer Layer) (*Entry, error) {
	if index < 0 || index > len(s.entries) {
		return nil, fmt.Errorf("%w: insert at %d, len %d", ErrIndexOutOfRange, index, len(s.entries))
	}
	e := &Entry{ID: uuid.New(), Layer: layer}
	s.entries = append(s.entries, nil)
	copy(s.entries[index+1:], s.entries[index:])
	s.entries[index] = e
	s.reindex(index)
	return e, nil
}

// RemoveAt deletes the layer at index
func (s *Stack) RemoveAt(index int) error {
	if index < 0 || index >= len(s.entries) {
		return fmt.Errorf("%w: remove at %d, len %d", ErrIndexOutOfRange, index, len(s.entries))
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	s.reindex(index)
	return nil
}

// MoveUp swaps the layer at index with the one before it. It reports false
// and does nothing for the first layer or a bad index.
func (s *Stack) MoveUp(index int) bool {
	if index <= 0 || index >= len(s.entries) {
		return false
	}
	s.swap(index, index-1)
	return true
}

// MoveDown swaps the layer at index with the one after it. It reports false
// and does nothing for the last layer or a bad index.
func (s *Stack) MoveDown(index int) bool {
	if index < 0 || index >= len(s.entries)-1 {
		return false
	}
	s.swap(index, index+1)
	return true
}

func (s *Stack) swap(i, j int) {
	s.entries[i], s.entries[j] = s.entries[j], s.entries[i]
	s.entries[i].Index = i
	s.entries[j].Index = j
}

// Clear removes every layer
func (s *Stack) Clear() {
	s.entries = nil
}

// Find returns the entry with the given ID
func (s *Stack) Find(id uuid.UUID) (*Entry, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Len returns the number of layers
func (s *Stack) Len() int { return len(s.entries) }

// Entries returns the entries in application order
func (s *Stack) Entries() []*Entry {
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Compose applies every layer in order to a zero field of the given size.
// An empty stack is not an error: it logs a warning and returns a flat field.
func (s *Stack) Compose(width, height int) (*HeightField, error) {
	field, err := New(width, height)
	if err != nil {
		return nil, err
	}

	if len(s.entries) == 0 {
		s.log.Warnf("no layers configured, %dx%d height field is flat", width, height)
		return field, nil
	}

	start := time.Now()
	for _, e := range s.entries {
		if err := e.Layer.Generate(field); err != nil {
			return nil, fmt.Errorf("failed to generate layer %d (%v): %w", e.Index, e.Layer.Kind(), err)
		}
	}
	s.log.Debugf("composed %d layers onto %dx%d in %.1fms", len(s.entries), width, height, util.TimeTrack(start))

	return field, nil
}
