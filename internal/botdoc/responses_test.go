package botdoc

import (
	"reflect"
	"testing"
)

func TestParagraphs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"<p>Hello</p>", []string{"Hello"}},
		{"<p> a<br>b </p><p></p><p>c<BR/></p>", []string{"ab", "c"}},
		{"<p>Tom &amp; Jerry</p>", []string{"Tom & Jerry"}},
		{"<p>multi\nline</p>", []string{"multi\nline"}},
		{"no paragraphs", nil},
		{"<p><br></p>", nil},
	}
	for _, tt := range tests {
		if got := Paragraphs(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Paragraphs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResponseTexts(t *testing.T) {
	g := mustParse(t, `{"context": {"flows": [{"name": "F", "pages": [{
		"name": "P",
		"action": {"responses": [{"type": "TEXT", "record": {"text": "<p>Hi there</p>"}}]},
		"handlers": [{
			"type": "CONDITION", "conditionStatement": "True",
			"action": {"responses": [{
				"type": "MESSAGE",
				"customPayload": {"content": {"templateId": "tpl-1", "item": [
					{"section": {"item": [{"text": {"text": "<p>Pick one</p>"}}, {"image": {}}]}},
					"junk"
				]}}
			}]}
		}]
	}]}]}}`)

	got := g.ResponseTexts()
	want := []ResponseText{
		{Flow: "F", Page: "P", Origin: OriginPage, ResponseType: "TEXT", Text: "Hi there"},
		{Flow: "F", Page: "P", Origin: OriginHandler, HandlerType: "CONDITION", Condition: "True",
			ResponseType: "MESSAGE", TemplateID: "tpl-1", Text: "Pick one"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResponseTexts() = %+v, want %+v", got, want)
	}
}
