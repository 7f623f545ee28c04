package docx2pdf

import (
	"testing"

	"github.com/avelar/go-docx2pdf/internal/docx"
)

func para(style, text string) docx.Paragraph {
	return docx.Paragraph{StyleID: style, Runs: []docx.Run{{Text: text}}}
}

func docOf(paragraphs ...docx.Paragraph) *docx.Document {
	return &docx.Document{Paragraphs: paragraphs}
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name string
		doc  *docx.Document
		want [][]string // bucket texts
	}{
		{
			name: "split before each heading",
			doc: docOf(
				para("Heading1", "Intro"),
				para("", "body one"),
				para("Heading1", "Second"),
				para("", "body two"),
				para("", "body three"),
			),
			want: [][]string{
				{"Intro", "body one"},
				{"Second", "body two", "body three"},
			},
		},
		{
			name: "heading at the very start opens no empty bucket",
			doc: docOf(
				para("Heading1", "Only section"),
				para("", "body"),
			),
			want: [][]string{{"Only section", "body"}},
		},
		{
			name: "content before the first heading",
			doc: docOf(
				para("", "preamble"),
				para("Heading2", "First heading"),
				para("", "body"),
			),
			want: [][]string{
				{"preamble"},
				{"First heading", "body"},
			},
		},
		{
			name: "no headings yields one bucket",
			doc: docOf(
				para("", "a"),
				para("Normal", "b"),
				para("", "c"),
			),
			want: [][]string{{"a", "b", "c"}},
		},
		{
			name: "adjacent headings each open a bucket",
			doc: docOf(
				para("Heading1", "One"),
				para("Heading1", "Two"),
			),
			want: [][]string{{"One"}, {"Two"}},
		},
		{
			name: "title counts as a heading",
			doc: docOf(
				para("", "pre"),
				para("Title", "The Title"),
			),
			want: [][]string{{"pre"}, {"The Title"}},
		},
		{
			name: "empty document yields zero buckets",
			doc:  docOf(),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Partition(tt.doc)
			if len(got) != len(tt.want) {
				t.Fatalf("Partition() = %d buckets, want %d", len(got), len(tt.want))
			}
			for i, bucket := range got {
				if len(bucket) != len(tt.want[i]) {
					t.Fatalf("bucket %d has %d paragraphs, want %d", i, len(bucket), len(tt.want[i]))
				}
				for j, p := range bucket {
					if p.Text() != tt.want[i][j] {
						t.Errorf("bucket %d paragraph %d = %q, want %q", i, j, p.Text(), tt.want[i][j])
					}
				}
			}
		})
	}
}

func TestPartitionLossless(t *testing.T) {
	doc := docOf(
		para("", "zero"),
		para("Heading1", "one"),
		para("", "two"),
		para("Heading2", "three"),
		para("", "four"),
		para("Heading1", "five"),
	)

	var flat []string
	for _, bucket := range Partition(doc) {
		for _, p := range bucket {
			flat = append(flat, p.Text())
		}
	}

	want := []string{"zero", "one", "two", "three", "four", "five"}
	if len(flat) != len(want) {
		t.Fatalf("concatenated %d paragraphs, want %d", len(flat), len(want))
	}
	for i := range want {
		if flat[i] != want[i] {
			t.Errorf("position %d = %q, want %q", i, flat[i], want[i])
		}
	}
}

func TestPartitionNilDocument(t *testing.T) {
	if got := Partition(nil); got != nil {
		t.Errorf("Partition(nil) = %v, want nil", got)
	}
}
