package services

import "testing"

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		owner   string
		repo    string
		wantErr bool
	}{
		{
			name:  "https",
			url:   "https://github.com/bytehub/bytehub",
			owner: "bytehub",
			repo:  "bytehub",
		},
		{
			name:  "https with .git suffix",
			url:   "https://github.com/bytehub/bytehub.git",
			owner: "bytehub",
			repo:  "bytehub",
		},
		{
			name:  "https with trailing slash",
			url:   "https://github.com/bytehub/bytehub/",
			owner: "bytehub",
			repo:  "bytehub",
		},
		{
			name:  "ssh",
			url:   "git@github.com:bytehub/bytehub.git",
			owner: "bytehub",
			repo:  "bytehub",
		},
		{
			name:  "www host",
			url:   "https://www.github.com/bytehub/bytehub",
			owner: "bytehub",
			repo:  "bytehub",
		},
		{
			name:    "foreign host",
			url:     "https://gitlab.com/bytehub/bytehub",
			wantErr: true,
		},
		{
			name:    "missing repo",
			url:     "https://github.com/bytehub",
			wantErr: true,
		},
		{
			name:    "empty",
			url:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseRepoURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseRepoURL(%q) expected error, got %s/%s", tt.url, owner, repo)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRepoURL(%q) error = %v", tt.url, err)
			}
			if owner != tt.owner || repo != tt.repo {
				t.Errorf("ParseRepoURL(%q) = %s/%s, expected %s/%s",
					tt.url, owner, repo, tt.owner, tt.repo)
			}
		})
	}
}
