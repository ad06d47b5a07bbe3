package python

import (
	"slices"
	"testing"

	"github.com/matzehuels/deplic/pkg/deps"
)

func TestSetup_Parse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name: "indirect list",
			content: "from setuptools import setup, find_packages\n" +
				`REQUIRED = ["tabulate", "numpy", "toml"]` + "\n" +
				`setup(name="foo", version="1.0", install_requires=REQUIRED)`,
			want: []string{"tabulate", "numpy", "toml"},
		},
		{
			name: "inline lists with constraints",
			content: `from setuptools import setup

setup(
    name="bar",
    install_requires=[
        "requests[socks]>=2.0",  # http
        'click==8.*',
    ],
    setup_requires=["wheel"],
)
`,
			want: []string{"requests", "click", "wheel"},
		},
		{
			name:    "computed value",
			content: "from setuptools import setup\nsetup(install_requires=open('r.txt').read().split())\n",
			want:    nil,
		},
		{
			name:    "no requirements",
			content: "from setuptools import setup\nsetup(name='x')\n",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "setup.py", tt.content)
			got, err := (&Setup{}).Parse(path, deps.Options{})
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListLiteral(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{`["a", "b"] + x`, `"a", "b"`, true},
		{`["a[x]", ("b")]`, `"a[x]", ("b")`, true},
		{`("a", "b")`, `"a", "b"`, true},
		{"[\n 'a', # c]\n 'b']", "\n 'a', \n 'b'", true},
		{`NAME`, "", false},
		{`["unterminated"`, "", false},
	}
	for _, tt := range tests {
		got, ok := listLiteral(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("listLiteral(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
