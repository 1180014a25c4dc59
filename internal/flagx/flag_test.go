package flagx

import (
	"os"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "flag with separate value",
			args:         []string{"-d", "postgres://db/filevault", "-x", "ignored"},
			allowedFlags: []string{"-d", "-r"},
			want:         []string{"-d", "postgres://db/filevault"},
		},
		{
			name:         "flag combined with equals",
			args:         []string{"-config=server.json", "-x", "ignored"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=server.json"},
		},
		{
			name:         "mixed forms preserve order",
			args:         []string{"-config=first.json", "-c", "second.json", "-x", "1"},
			allowedFlags: []string{"-c", "-config"},
			want:         []string{"-config=first.json", "-c", "second.json"},
		},
		{
			name:         "unknown flags and positionals dropped",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-d"},
			want:         []string{},
		},
		{
			name:         "trailing flag without value kept",
			args:         []string{"-r"},
			allowedFlags: []string{"-r"},
			want:         []string{"-r"},
		},
		{
			name:         "next dash token is not a value",
			args:         []string{"-r", "-notvalue"},
			allowedFlags: []string{"-r"},
			want:         []string{"-r"},
		},
		{
			name:         "several allowed flags kept together",
			args:         []string{"-r", "/var/blobs", "-d", "postgres://db", "--other", "x"},
			allowedFlags: []string{"-d", "-r"},
			want:         []string{"-r", "/var/blobs", "-d", "postgres://db"},
		},
		{
			name:         "empty args",
			args:         []string{},
			allowedFlags: []string{"-d"},
			want:         []string{},
		},
		{
			name:         "repeated flag preserved in order",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := FilterArgs(tt.args, tt.allowedFlags)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("FilterArgs() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("short -c with value", func(t *testing.T) {
		os.Args = []string{"server", "-c", "/etc/filevault/short.json"}
		assert.Equal(t, "/etc/filevault/short.json", JsonConfigFlags())
	})

	t.Run("long -config with value", func(t *testing.T) {
		os.Args = []string{"server", "-config", "/etc/filevault/long.json"}
		assert.Equal(t, "/etc/filevault/long.json", JsonConfigFlags())
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		os.Args = []string{"server", "-x", "1", "-y", "2"}
		assert.Empty(t, JsonConfigFlags())
	})

	t.Run("last occurrence wins", func(t *testing.T) {
		os.Args = []string{"server", "-c", "/path/1.json", "-config", "/path/2.json"}
		assert.Equal(t, "/path/2.json", JsonConfigFlags())
	})
}
