package citation

import (
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantRefs []string
	}{
		{
			name:     "no references",
			text:     "This agreement looks standard overall.",
			wantRefs: nil,
		},
		{
			name:     "single section",
			text:     "See Section 12 for details.",
			wantRefs: []string{"Section 12"},
		},
		{
			name:     "decimal sub-part",
			text:     "Termination is covered in Clause 4.2 of the contract.",
			wantRefs: []string{"Clause 4.2"},
		},
		{
			name:     "deep sub-parts yield one match",
			text:     "Refer to Section 4.4.4 here.",
			wantRefs: []string{"Section 4.4.4"},
		},
		{
			name:     "case insensitive keyword",
			text:     "as noted in ARTICLE 7 and paragraph 3.1",
			wantRefs: []string{"ARTICLE 7", "paragraph 3.1"},
		},
		{
			name:     "multiple occurrences in order",
			text:     "Section 1 defines terms, Clause 2.3 limits liability, Section 1 repeats.",
			wantRefs: []string{"Section 1", "Clause 2.3", "Section 1"},
		},
		{
			name:     "keyword without number ignored",
			text:     "The section about fees is vague.",
			wantRefs: nil,
		},
		{
			name:     "keyword inside a word ignored",
			text:     "The subsection 4 marker is not a reference keyword.",
			wantRefs: nil,
		},
		{
			name:     "trailing dot not consumed",
			text:     "This ends with Section 9.",
			wantRefs: []string{"Section 9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handles := Resolve(tt.text)

			if len(handles) != len(tt.wantRefs) {
				t.Fatalf("Resolve() returned %d handles, want %d: %+v", len(handles), len(tt.wantRefs), handles)
			}
			for i, want := range tt.wantRefs {
				if handles[i].Reference != want {
					t.Errorf("handle[%d].Reference = %q, want %q", i, handles[i].Reference, want)
				}
			}
		})
	}
}

func TestResolveOffsets(t *testing.T) {
	text := "Intro. Section 3.1 applies."
	handles := Resolve(text)

	if len(handles) != 1 {
		t.Fatalf("Resolve() returned %d handles, want 1", len(handles))
	}
	h := handles[0]
	if got := text[h.Start:h.End]; got != h.Reference {
		t.Errorf("text[Start:End] = %q, want %q", got, h.Reference)
	}
	if h.Keyword != "Section" {
		t.Errorf("Keyword = %q, want %q", h.Keyword, "Section")
	}
	if h.Designator != "3.1" {
		t.Errorf("Designator = %q, want %q", h.Designator, "3.1")
	}
}

func TestFollowUpQuestion(t *testing.T) {
	got := FollowUpQuestion("Clause 4.2")
	want := "Can you explain Clause 4.2 in more detail?"
	if got != want {
		t.Errorf("FollowUpQuestion() = %q, want %q", got, want)
	}
}
