package parser

import (
	"testing"

	"github.com/go-test/deep"
)

func TestDecodeCSV(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Row
	}{
		{"empty", "", []Row{}},
		{"only header", "onlyheader", []Row{}},
		{"blank lines only", "\n  \n\t\n", []Row{}},
		{"header and blanks", "id,title\n\n   \n", []Row{}},
		{"quoted comma", "id,title\n1,\"A, B\"\n", []Row{{"id": "1", "title": "A, B"}}},
		{"quoted headers", "\"id\", \"title\" ,excerpt\n1,Hello,World\n", []Row{
			{"id": "1", "title": "Hello", "excerpt": "World"},
		}},
		{"leading and trailing blanks", "\n\nid,title\n\n1,One\n\n2,Two\n\n", []Row{
			{"id": "1", "title": "One"},
			{"id": "2", "title": "Two"},
		}},
		{"crlf", "id,title\r\n1,One\r\n", []Row{{"id": "1", "title": "One"}}},
		{"short rows dropped", "id,title,tag\n1,One\n2,Two,Art\n", []Row{
			{"id": "2", "title": "Two", "tag": "Art"},
		}},
		{"extra values ignored", "id,title\n1,One,surplus,more\n", []Row{{"id": "1", "title": "One"}}},
		{"values trimmed", "id,title\n 1 ,  \" spaced \"  \n", []Row{{"id": "1", "title": "spaced"}}},
		{"empty values kept", "id,title,excerpt\n1,One,\n", []Row{{"id": "1", "title": "One", "excerpt": ""}}},
		{"unbalanced quote", "id,title\n1,\"never closed, at all\n", []Row{{"id": "1", "title": "never closed, at all"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := deep.Equal(DecodeCSV(tt.raw), tt.want); diff != nil {
				t.Errorf("DecodeCSV() diff %v", diff)
			}
		})
	}
}

func TestDecodeCSV_keysMatchHeaders(t *testing.T) {
	raw := "\"id\",title, tag ,\"date\"\n" +
		"1,First,Art,2025-08-20\n" +
		"2,\"Second, with comma\",Music,2025-08-22\n" +
		"3,Third,Sports,2025-08-27\n"

	rows := DecodeCSV(raw)
	if len(rows) != 3 {
		t.Fatalf("DecodeCSV() len = %d, want 3", len(rows))
	}

	headers := []string{"id", "title", "tag", "date"}
	for i, r := range rows {
		if len(r) != len(headers) {
			t.Errorf("row %d has %d keys, want %d", i, len(r), len(headers))
		}
		for _, h := range headers {
			if _, ok := r[h]; !ok {
				t.Errorf("row %d is missing key %q", i, h)
			}
		}
	}

	if rows[1]["title"] != "Second, with comma" {
		t.Errorf("rows[1][title] = %q", rows[1]["title"])
	}
}
