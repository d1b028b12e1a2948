package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Pattern", "Attempts", "Win Rate"}
	rows := [][]string{
		{"zigzag", "3", "33.3%"},
		{"tight-turns", "12", "100.0%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Pattern     Attempts Win Rate" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "zigzag             3    33.3%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "tight-turns       12   100.0%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"Name", "N"}, [][]string{{"波形", "1"}}, nil)
	if lines[1] != "波形 1" {
		t.Fatalf("unexpected wide rune row: %q", lines[1])
	}
}
