package cli

import "testing"

func TestParseIDs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []int64
		wantErr bool
	}{
		{"single", []string{"42"}, []int64{42}, false},
		{"multiple", []string{"1", "2", "3"}, []int64{1, 2, 3}, false},
		{"empty", []string{}, []int64{}, false},
		{"not a number", []string{"1", "abc"}, nil, true},
		{"float", []string{"1.5"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIDs(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Error("parseIDs() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseIDs() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseIDs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseIDs()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNewRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	want := []string{"serve", "import", "search", "sets", "checkout", "checkin", "plans", "locations"}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
