package migration

import "testing"

func TestPreviousVersion(t *testing.T) {
	tests := []struct {
		dirty   int
		want    uint64
		wantErr bool
	}{
		{dirty: 3, want: 2},
		{dirty: 5, want: 4},
		{dirty: 1, wantErr: true},
		{dirty: 42, wantErr: true},
	}
	for _, tc := range tests {
		got, err := previousVersion(tc.dirty)
		if (err != nil) != tc.wantErr {
			t.Fatalf("previousVersion(%d) error = %v; wantErr %v", tc.dirty, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("previousVersion(%d) = %d; want %d", tc.dirty, got, tc.want)
		}
	}
}

func TestMigrateDown_RejectsNonPositiveSteps(t *testing.T) {
	if err := MigrateDown(nil, 0); err == nil {
		t.Fatal("expected error for zero steps")
	}
}
