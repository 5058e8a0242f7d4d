package chat

import (
	"math/rand"
	"sync"
)

// Palette lists every avatar color a message can get
var Palette = [...]string{"#0EA5E9", "#F97316", "#8B5CF6", "#10B981", "#EF4444", "#F59E0B"}

// ColorChooser picks the avatar color of a new message
type ColorChooser interface {
	Choose() string
}

// RandomChooser picks uniformly from Palette, the same seed yields the same sequence
type RandomChooser struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomChooser(seed int64) *RandomChooser {
	return &RandomChooser{rnd: rand.New(rand.NewSource(seed))}
}

func (c *RandomChooser) Choose() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Palette[c.rnd.Intn(len(Palette))]
}

// FixedColor always returns itself
type FixedColor string

func (c FixedColor) Choose() string { return string(c) }
