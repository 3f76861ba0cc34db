package integrate

import (
	"reflect"
	"testing"

	"github.com/randalmurphal/mergetrain/pr"
	"github.com/randalmurphal/mergetrain/state"
)

func TestEnsureIntegrationBranch(t *testing.T) {
	tests := []struct {
		name    string
		local   []string
		remote  []string
		wantOps []string
	}{
		{
			name:   "local branch exists with remote counterpart",
			local:  []string{"main", "release/2026-08"},
			remote: []string{"main", "release/2026-08"},
			wantOps: []string{
				"checkout release/2026-08",
				"pull origin release/2026-08",
			},
		},
		{
			name:   "local branch exists without remote counterpart",
			local:  []string{"main", "release/2026-08"},
			remote: []string{"main"},
			wantOps: []string{
				"checkout release/2026-08",
			},
		},
		{
			name:   "remote branch only",
			local:  []string{"main"},
			remote: []string{"main", "release/2026-08"},
			wantOps: []string{
				"checkout --track origin/release/2026-08",
			},
		},
		{
			name:   "branch does not exist anywhere",
			local:  []string{"main"},
			remote: []string{"main"},
			wantOps: []string{
				"checkout main",
				"pull origin main",
				"checkout -b release/2026-08",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newFakeGit()
			g.localBranches = map[string]bool{}
			g.remoteBranches = map[string]bool{}
			for _, b := range tt.local {
				g.localBranches[b] = true
			}
			for _, b := range tt.remote {
				g.remoteBranches[b] = true
			}

			o := New(g, &pr.MockProvider{}, state.NewMemoryStore())
			if err := o.ensureIntegrationBranch("release/2026-08", "main"); err != nil {
				t.Fatalf("ensureIntegrationBranch() error = %v", err)
			}
			if !reflect.DeepEqual(g.ops, tt.wantOps) {
				t.Errorf("ops = %v, want %v", g.ops, tt.wantOps)
			}
		})
	}
}
