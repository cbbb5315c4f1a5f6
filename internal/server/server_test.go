package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"lecturehub/internal/app"
	"lecturehub/pkg/domain"
	"lecturehub/pkg/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	core, err := app.New(app.Config{
		Store:    store.NewMemoryStore(),
		Sessions: store.NewMemorySessionStore(),
	})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	srv := httptest.NewServer(New(Config{App: core}).Router())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func doJSON(t *testing.T, method, url string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createLecture(t *testing.T, baseURL string) domain.Lecture {
	t.Helper()
	resp := postJSON(t, baseURL+"/lecture/create", map[string]any{
		"topic":        "Paxos in practice",
		"start_time":   "2026-09-10T14:00:00Z",
		"duration":     60,
		"organizer_id": primitive.NewObjectID().Hex(),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("lecture create status = %d", resp.StatusCode)
	}
	var lec domain.Lecture
	decodeInto(t, resp, &lec)
	return lec
}

func TestRegisterLoginMe(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/user/register", map[string]any{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "s3cret-pw",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	var user domain.User
	decodeInto(t, resp, &user)
	if user.ID == "" || user.Avatar == "" {
		t.Fatalf("registered user = %+v", user)
	}

	// Duplicate username conflicts.
	resp = postJSON(t, srv.URL+"/user/register", map[string]any{
		"username": "ada",
		"email":    "other@example.com",
		"password": "s3cret-pw",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/user/login", map[string]any{
		"email":    "ada@example.com",
		"password": "s3cret-pw",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var auth struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	decodeInto(t, resp, &auth)
	if auth.Token == "" {
		t.Fatal("login returned no token")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /user/me: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d", resp.StatusCode)
	}
	var me domain.User
	decodeInto(t, resp, &me)
	if me.ID != user.ID {
		t.Fatalf("me.ID = %q, want %q", me.ID, user.ID)
	}

	resp, err = http.Get(srv.URL + "/user/me")
	if err != nil {
		t.Fatalf("GET /user/me unauthenticated: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated me status = %d, want 401", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/user/login", map[string]any{
		"email":    "ada@example.com",
		"password": "wrong",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", resp.StatusCode)
	}
}

func TestLectureLifecycle(t *testing.T) {
	srv := newTestServer(t)
	lec := createLecture(t, srv.URL)

	if lec.LectureCode < 100000 || lec.LectureCode > 999999 {
		t.Fatalf("lecture code %d out of range", lec.LectureCode)
	}

	resp, err := http.Get(fmt.Sprintf("%s/lecture/by_code/%d", srv.URL, lec.LectureCode))
	if err != nil {
		t.Fatalf("GET by_code: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("by_code status = %d", resp.StatusCode)
	}
	var byCode domain.Lecture
	decodeInto(t, resp, &byCode)
	if byCode.ID != lec.ID {
		t.Fatalf("by_code returned %q, want %q", byCode.ID, lec.ID)
	}

	// Numeric start_time on update.
	resp = doJSON(t, http.MethodPut, srv.URL+"/lecture/"+lec.ID, map[string]any{
		"start_time": 1700000000000,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	var updated domain.Lecture
	decodeInto(t, resp, &updated)
	if updated.StartTime != 1700000000000 {
		t.Fatalf("StartTime = %d after numeric update", updated.StartTime)
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/lecture/"+lec.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/lecture/" + lec.ID)
	if err != nil {
		t.Fatalf("GET deleted lecture: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted lecture status = %d, want 404", resp.StatusCode)
	}
}

func TestLectureCreateRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/lecture/create", map[string]any{
		"topic":        "x",
		"start_time":   "tomorrow-ish",
		"organizer_id": primitive.NewObjectID().Hex(),
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad start_time status = %d, want 400", resp.StatusCode)
	}

	resp = postJSON(t, srv.URL+"/lecture/create", map[string]any{
		"topic":        "x",
		"start_time":   "2026-09-10T14:00:00Z",
		"organizer_id": "not-hex",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad organizer status = %d, want 400", resp.StatusCode)
	}
}

func TestInvitationAcceptFlow(t *testing.T) {
	srv := newTestServer(t)
	lec := createLecture(t, srv.URL)
	speaker := primitive.NewObjectID().Hex()

	resp := postJSON(t, srv.URL+"/invitation/create", map[string]any{
		"lecture_id": lec.ID,
		"speaker_id": speaker,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("invitation create status = %d", resp.StatusCode)
	}
	var inv domain.Invitation
	decodeInto(t, resp, &inv)

	// Accepting twice is idempotent.
	for i := 0; i < 2; i++ {
		resp = doJSON(t, http.MethodPut, srv.URL+"/invitation/accept/"+inv.ID, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("accept #%d status = %d", i+1, resp.StatusCode)
		}
		var accepted domain.Invitation
		decodeInto(t, resp, &accepted)
		if accepted.Status != domain.InvitationAccepted {
			t.Fatalf("accept #%d status field = %d", i+1, accepted.Status)
		}
	}

	resp, err := http.Get(srv.URL + "/lecture/" + lec.ID)
	if err != nil {
		t.Fatalf("GET lecture: %v", err)
	}
	var got domain.Lecture
	decodeInto(t, resp, &got)
	if got.SpeakerID != speaker {
		t.Fatalf("lecture speaker = %q, want %q", got.SpeakerID, speaker)
	}

	resp = doJSON(t, http.MethodPut, srv.URL+"/invitation/accept/"+primitive.NewObjectID().Hex(), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("accept missing status = %d, want 404", resp.StatusCode)
	}
}

func TestPresenceUpsertOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	lec := createLecture(t, srv.URL)
	audience := primitive.NewObjectID().Hex()

	for i, present := range []bool{true, false} {
		resp := doJSON(t, http.MethodPut, srv.URL+"/attendance/update_is_present", map[string]any{
			"lecture_id":  lec.ID,
			"audience_id": audience,
			"is_present":  present,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("upsert #%d status = %d", i+1, resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/attendance/by-lecture?lecture_id=" + lec.ID)
	if err != nil {
		t.Fatalf("GET by-lecture: %v", err)
	}
	var records []domain.Attendance
	decodeInto(t, resp, &records)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].IsPresent {
		t.Fatal("IsPresent = true after second upsert")
	}
}

func TestFeedbackRoutes(t *testing.T) {
	srv := newTestServer(t)
	lec := createLecture(t, srv.URL)
	user := primitive.NewObjectID().Hex()

	resp := postJSON(t, srv.URL+"/feedback/submit", map[string]any{
		"lecture_id": lec.ID,
		"user_id":    user,
		"too_fast":   true,
		"other":      "great pacing otherwise",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("submit status = %d", resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/feedback/lecture/" + lec.ID + "/feedback_summary")
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	var summary domain.FeedbackSummary
	decodeInto(t, resp, &summary)
	if summary.TooFast != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	resp, err = http.Get(srv.URL + "/feedback/lecture/" + lec.ID + "/user/" + user + "/feedback")
	if err != nil {
		t.Fatalf("GET user feedback: %v", err)
	}
	var fb domain.Feedback
	decodeInto(t, resp, &fb)
	if fb.Other != "great pacing otherwise" {
		t.Fatalf("feedback = %+v", fb)
	}

	resp, err = http.Get(srv.URL + "/feedback/lecture/" + lec.ID + "/feedback_details")
	if err != nil {
		t.Fatalf("GET details: %v", err)
	}
	var comments []domain.FeedbackComment
	decodeInto(t, resp, &comments)
	if len(comments) != 1 || comments[0].Comment != "great pacing otherwise" {
		t.Fatalf("comments = %+v", comments)
	}

	resp, err = http.Get(srv.URL + "/feedback/lecture/" + lec.ID + "/user/" + primitive.NewObjectID().Hex() + "/feedback")
	if err != nil {
		t.Fatalf("GET missing feedback: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing feedback status = %d, want 404", resp.StatusCode)
	}
}

func TestDiscussionRoutes(t *testing.T) {
	srv := newTestServer(t)
	lec := createLecture(t, srv.URL)

	resp := postJSON(t, srv.URL+"/user/register", map[string]any{
		"username": "ada",
		"email":    "ada@example.com",
		"password": "s3cret-pw",
	})
	var user domain.User
	decodeInto(t, resp, &user)

	resp = postJSON(t, srv.URL+"/discussion/add", map[string]any{
		"lecture_id": lec.ID,
		"user_id":    user.ID,
		"content":    "does this generalize?",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add status = %d", resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/discussion/lecture/" + lec.ID)
	if err != nil {
		t.Fatalf("GET discussion: %v", err)
	}
	var msgs []domain.DiscussionMessage
	decodeInto(t, resp, &msgs)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Username != "ada" || msgs[0].Content != "does this generalize?" {
		t.Fatalf("message = %+v", msgs[0])
	}
}

func TestBulkDeletesOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	lec := createLecture(t, srv.URL)
	speaker := primitive.NewObjectID().Hex()

	resp := postJSON(t, srv.URL+"/invitation/create", map[string]any{
		"lecture_id": lec.ID,
		"speaker_id": speaker,
	})
	resp.Body.Close()
	resp = doJSON(t, http.MethodPut, srv.URL+"/attendance/update_is_present", map[string]any{
		"lecture_id":  lec.ID,
		"audience_id": primitive.NewObjectID().Hex(),
		"is_present":  true,
	})
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, srv.URL+"/lecture/"+lec.ID, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("lecture delete status = %d", resp.StatusCode)
	}

	// Dependents survive the lecture delete until torn down explicitly.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/invitation/lid/"+lec.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("invitation bulk delete status = %d", resp.StatusCode)
	}
	var res map[string]int64
	decodeInto(t, resp, &res)
	if res["deleted"] != 1 {
		t.Fatalf("invitation deleted = %d, want 1", res["deleted"])
	}

	resp = doJSON(t, http.MethodDelete, srv.URL+"/attendance/bylecture/"+lec.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("attendance bulk delete status = %d", resp.StatusCode)
	}
	decodeInto(t, resp, &res)
	if res["deleted"] != 1 {
		t.Fatalf("attendance deleted = %d, want 1", res["deleted"])
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatal("missing X-Request-Id header")
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("missing security headers")
	}
}
