package security

import "testing"

func TestFileMode_ToSymbolic(t *testing.T) {
	tests := []struct {
		mode FileMode
		want string
	}{
		{0o755, "rwxr-xr-x"},
		{0o644, "rw-r--r--"},
		{0o000, "---------"},
		{0o777, "rwxrwxrwx"},
	}
	for _, tt := range tests {
		if got := tt.mode.ToSymbolic(); got != tt.want {
			t.Errorf("FileMode(%o).ToSymbolic() = %q, want %q", uint16(tt.mode), got, tt.want)
		}
	}
}

func TestFileMode_Setuid(t *testing.T) {
	tests := []struct {
		mode FileMode
		want string
	}{
		{0o4755, "rwsr-xr-x"},
		{0o4655, "rwSr-xr-x"}, // setuid without owner exec
	}
	for _, tt := range tests {
		if got := tt.mode.ToSymbolic(); got != tt.want {
			t.Errorf("FileMode(%o).ToSymbolic() = %q, want %q", uint16(tt.mode), got, tt.want)
		}
	}
}

func TestFileModeFromOctalStr(t *testing.T) {
	mode, ok := FileModeFromOctalStr("755")
	if !ok || mode != 0o755 {
		t.Fatalf("FileModeFromOctalStr(755) = (%v, %v), want (0755, true)", mode, ok)
	}

	if _, ok := FileModeFromOctalStr("not-octal"); ok {
		t.Error("FileModeFromOctalStr should reject non-octal input")
	}
}

func TestFileMode_String(t *testing.T) {
	if got := DirDefault.String(); got != "0755" {
		t.Errorf("DirDefault.String() = %q, want %q", got, "0755")
	}
}
