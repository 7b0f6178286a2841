package config

import "testing"

func TestDefault_MaxEvalDepth(t *testing.T) {
	c := Default()
	if c.MaxEvalDepth != 100 {
		t.Errorf("Default().MaxEvalDepth = %d, want 100", c.MaxEvalDepth)
	}
}
