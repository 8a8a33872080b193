package logger

import (
	"io"
	"log"
	"strings"
	"sync"

	"algodash/internal/pkg/jsonutil"
	"algodash/internal/pkg/text"
)

// maxWireBody 单个帧在 dump 中保留的最大字节数。
const maxWireBody = 64 << 10

var (
	wireMu  sync.Mutex
	wireLog *log.Logger
)

// SetWireWriter 设置原始收发帧的落盘目标，nil 关闭 dump。
func SetWireWriter(w io.Writer) {
	wireMu.Lock()
	defer wireMu.Unlock()
	if w == nil {
		wireLog = nil
		return
	}
	wireLog = log.New(w, "", log.LstdFlags|log.Lmicroseconds)
}

func WireEnabled() bool {
	wireMu.Lock()
	defer wireMu.Unlock()
	return wireLog != nil
}

type wireSection struct {
	Title string
	Body  string
}

func logWire(direction, kind, id string, sections []wireSection) {
	wireMu.Lock()
	l := wireLog
	wireMu.Unlock()
	if l == nil {
		return
	}
	var b strings.Builder
	b.WriteString("[WIRE]")
	for _, tag := range []string{direction, kind, id} {
		if tag == "" {
			continue
		}
		b.WriteString("[")
		b.WriteString(tag)
		b.WriteString("]")
	}
	b.WriteString("\n")
	for _, sec := range sections {
		t := strings.TrimSpace(sec.Title)
		if t == "" {
			t = "FRAME"
		}
		b.WriteString("--- ")
		b.WriteString(t)
		b.WriteString(" ---\n")
		b.WriteString(sec.Body)
		if !strings.HasSuffix(sec.Body, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("=====\n")
	l.Print(b.String())
}

func frameBody(raw []byte) string {
	return text.Truncate(jsonutil.Pretty(raw), maxWireBody)
}

// LogWireInbound dumps a frame received from the backend.
func LogWireInbound(kind, id string, raw []byte) {
	logWire("in", kind, id, []wireSection{{Title: "FRAME", Body: frameBody(raw)}})
}

// LogWireOutbound dumps a command sent to the backend.
func LogWireOutbound(kind, id string, raw []byte) {
	logWire("out", kind, id, []wireSection{{Title: "COMMAND", Body: frameBody(raw)}})
}

// LogWireRejected dumps a frame the decoder refused together with the reason.
func LogWireRejected(reason string, raw []byte) {
	logWire("in", "rejected", "", []wireSection{
		{Title: "REASON", Body: reason},
		{Title: "FRAME", Body: text.Truncate(string(raw), maxWireBody)},
	})
}
