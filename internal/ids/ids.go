// Package ids provides the unique identifier generators used for recipes,
// selling units and users.
package ids

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// Strategy names accepted by New.
const (
	StrategyUUID      = "uuid"
	StrategySnowflake = "snowflake"
)

// Generator produces unique string identifiers.
type Generator interface {
	NewID() string
}

// UUID generates random (version 4) UUIDs.
type UUID struct{}

// NewID returns a new UUID string.
func (UUID) NewID() string {
	return uuid.New().String()
}

// Snowflake generates time-ordered snowflake IDs for a single node.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a snowflake generator for the given node number (0-1023).
func NewSnowflake(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node %d: %w", node, err)
	}
	return &Snowflake{node: n}, nil
}

// NewID returns the next snowflake ID in base 10.
func (s *Snowflake) NewID() string {
	return s.node.Generate().String()
}

// New returns the generator for the named strategy ("uuid" or "snowflake").
func New(strategy string, node int64) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategyUUID:
		return UUID{}, nil
	case StrategySnowflake:
		return NewSnowflake(node)
	default:
		return nil, fmt.Errorf("unknown id strategy: %s", strategy)
	}
}
