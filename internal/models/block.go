// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	// DefaultBindingBlock is the block type whose profile_id attribute is
	// rewritten when a template is materialized for a profile.
	DefaultBindingBlock = "profilepages/profile"

	// ProfileIDAttr is the attribute carried by binding blocks.
	ProfileIDAttr = "profile_id"
)

// Block is a single node of a page content tree. Templates and generated
// documents store an ordered list of blocks; nested blocks live in Children.
type Block struct {
	Type       string         `json:"type" yaml:"type"`
	Attributes map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Children   []Block        `json:"children,omitempty" yaml:"children,omitempty"`
	HTML       string         `json:"html,omitempty" yaml:"html,omitempty"`
}

// Blocks is an ordered content tree. It implements sql.Scanner and
// driver.Valuer so it can be stored in a JSONB column.
type Blocks []Block

// Clone returns a deep copy of the tree. Attribute maps and any nested
// maps or slices inside attribute values are copied too.
func (bs Blocks) Clone() Blocks {
	if bs == nil {
		return nil
	}
	out := make(Blocks, len(bs))
	for i, b := range bs {
		out[i] = b.clone()
	}
	return out
}

func (b Block) clone() Block {
	c := Block{Type: b.Type, HTML: b.HTML}
	if b.Attributes != nil {
		c.Attributes = make(map[string]any, len(b.Attributes))
		for k, v := range b.Attributes {
			c.Attributes[k] = cloneValue(v)
		}
	}
	if b.Children != nil {
		c.Children = Blocks(b.Children).Clone()
	}
	return c
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = cloneValue(vv)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = cloneValue(vv)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// BindProfile sets the profile_id attribute of every block of the given
// type, at any depth, to profileID. It mutates the tree in place and
// returns the number of blocks rewritten. Callers rewrite a Clone, never
// a template's own content.
func (bs Blocks) BindProfile(blockType string, profileID int64) int {
	n := 0
	for i := range bs {
		if bs[i].Type == blockType {
			if bs[i].Attributes == nil {
				bs[i].Attributes = make(map[string]any, 1)
			}
			bs[i].Attributes[ProfileIDAttr] = profileID
			n++
		}
		if len(bs[i].Children) > 0 {
			n += Blocks(bs[i].Children).BindProfile(blockType, profileID)
		}
	}
	return n
}

// BoundProfileIDs returns the profile_id of every binding block in
// document order. Blocks whose attribute is missing or unparseable are
// reported as 0.
func (bs Blocks) BoundProfileIDs(blockType string) []int64 {
	var ids []int64
	for _, b := range bs {
		if b.Type == blockType {
			id, _ := b.BoundProfileID()
			ids = append(ids, id)
		}
		if len(b.Children) > 0 {
			ids = append(ids, Blocks(b.Children).BoundProfileIDs(blockType)...)
		}
	}
	return ids
}

// BoundProfileID reads the block's profile_id attribute. It reports false
// when the attribute is missing or not a number.
func (b Block) BoundProfileID() (int64, bool) {
	return attrInt64(b.Attributes[ProfileIDAttr])
}

// attrInt64 normalizes the numeric shapes a profile_id can take after a
// round trip through JSON or YAML.
func attrInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case float64:
		return int64(t), true
	case json.Number:
		n, err := t.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Value encodes the tree as JSON for storage. A nil tree is stored as an
// empty array.
func (bs Blocks) Value() (driver.Value, error) {
	if bs == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal(bs)
	if err != nil {
		return nil, fmt.Errorf("encode blocks: %w", err)
	}
	return b, nil
}

// Scan decodes a JSON/JSONB column into the tree.
func (bs *Blocks) Scan(src any) error {
	var raw []byte
	switch t := src.(type) {
	case nil:
		*bs = nil
		return nil
	case []byte:
		raw = t
	case string:
		raw = []byte(t)
	default:
		return fmt.Errorf("scan blocks: unsupported type %T", src)
	}
	var out Blocks
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode blocks: %w", err)
	}
	*bs = out
	return nil
}
