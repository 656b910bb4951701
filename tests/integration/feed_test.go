//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

func TestChangeFeedDeliversCreatedEvent(t *testing.T) {
	wsURL := "ws" + strings.TrimPrefix(baseURL(), "http") + "/ws/questions"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		if resp != nil && resp.StatusCode == 501 {
			t.Skip("change feed disabled (no REDIS_ADDR)")
		}
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	id, _ := createQuestion(t, 2)
	defer deleteQuestion(t, id)

	deadline := time.Now().Add(5 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		var msg ws.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for question_created: %v", err)
		}
		if msg.Type != ws.TypeQuestionCreated {
			continue
		}
		var payload ws.QuestionEventPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload.QuestionID == id {
			return
		}
	}
}
