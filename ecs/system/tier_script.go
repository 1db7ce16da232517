package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// TierScript maps a player level to a portal tier. The script reads the
// global `level` and assigns the global `tier`.
type TierScript struct {
	compiled *tengo.Compiled
}

func NewTierScript(src []byte) (*TierScript, error) {
	script := tengo.NewScript(src)
	_ = script.Add("level", 0)
	_ = script.Add("tier", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("tier script: compile: %w", err)
	}
	return &TierScript{compiled: compiled}, nil
}

func (s *TierScript) Tier(level int) (string, error) {
	if s == nil || s.compiled == nil {
		return "", fmt.Errorf("tier script: not loaded")
	}
	if err := s.compiled.Set("level", level); err != nil {
		return "", err
	}
	if err := s.compiled.Set("tier", ""); err != nil {
		return "", err
	}
	if err := s.compiled.Run(); err != nil {
		return "", fmt.Errorf("tier script: run level %d: %w", level, err)
	}
	tier := strings.TrimSpace(s.compiled.Get("tier").String())
	if tier == "" {
		return "", fmt.Errorf("tier script: no tier for level %d", level)
	}
	return tier, nil
}
