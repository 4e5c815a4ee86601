package extract

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		text   string
		sender string
		ok     bool
	}{
		{
			name:   "nested data single message",
			body:   `{"data":{"messages":{"messageBody":"hi","remoteJid":"2348011112222@s.whatsapp.net"}}}`,
			text:   "hi",
			sender: "2348011112222",
			ok:     true,
		},
		{
			name:   "nested data message array",
			body:   `{"data":{"messages":[{"body":"menu","from":"+234 801 111 2222"}]}}`,
			text:   "menu",
			sender: "2348011112222",
			ok:     true,
		},
		{
			name:   "top-level messages array",
			body:   `{"messages":[{"text":"2","sender":"2348011112222"}]}`,
			text:   "2",
			sender: "2348011112222",
			ok:     true,
		},
		{
			name:   "flat fields",
			body:   `{"text":"done","from":"2348011112222"}`,
			text:   "done",
			sender: "2348011112222",
			ok:     true,
		},
		{
			name: "data shape wins over flat fields",
			body: `{"data":{"messages":{"text":"nested","from":"111"}},"text":"flat","from":"222"}`,
			text: "nested", sender: "111", ok: true,
		},
		{name: "missing text", body: `{"from":"2348011112222"}`, ok: false},
		{name: "missing sender", body: `{"text":"hello"}`, ok: false},
		{name: "empty object", body: `{}`, ok: false},
		{name: "not json", body: `status=ok`, ok: false},
		{name: "empty body", body: ``, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inbound, ok := Extract([]byte(tt.body))
			if ok != tt.ok {
				t.Fatalf("Extract ok=%v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if inbound.Text != tt.text {
				t.Errorf("text = %q, want %q", inbound.Text, tt.text)
			}
			if inbound.SenderID != tt.sender {
				t.Errorf("sender = %q, want %q", inbound.SenderID, tt.sender)
			}
		})
	}
}
