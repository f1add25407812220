package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbaliev/campushub/internal/email"
	"github.com/nbaliev/campushub/internal/models"
)

type stubRenderer struct {
	pdf []byte
	err error
}

func (s *stubRenderer) Render(student *models.Student) ([]byte, error) {
	return s.pdf, s.err
}

type stubMailer struct {
	to          string
	subject     string
	attachments []email.Attachment
	err         error
}

func (s *stubMailer) Send(to, subject, body string, attachments ...email.Attachment) error {
	s.to = to
	s.subject = subject
	s.attachments = attachments
	return s.err
}

func newIDCardFixture(t *testing.T, renderer CardRenderer, mailer CardMailer) (*IDCardHandler, *mockStudentStorage) {
	t.Helper()
	students := newMockStudentStorage()
	studentHandler := NewStudentHandler(testLogger(), students, newMockCourseStorage(), nil)
	return NewIDCardHandler(testLogger(), studentHandler, renderer, mailer), students
}

func TestIDCardSend(t *testing.T) {
	renderer := &stubRenderer{pdf: []byte("%PDF-1.4 fake")}
	mailer := &stubMailer{}
	handler, students := newIDCardFixture(t, renderer, mailer)

	students.students["s1"] = &models.Student{
		ID: "s1", RollID: "STU-00007", FirstName: "Sam", LastName: "Khan",
		Email: "sam@example.com", Status: models.StudentEnrolled,
	}

	rec := httptest.NewRecorder()
	handler.Send(rec, newStudentIDRequest(http.MethodPost, "s1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sam@example.com", mailer.to)
	require.Len(t, mailer.attachments, 1)
	assert.Equal(t, "id-card-STU-00007.pdf", mailer.attachments[0].Filename)
	assert.Equal(t, "application/pdf", mailer.attachments[0].ContentType)
	assert.Equal(t, renderer.pdf, mailer.attachments[0].Data)
}

func TestIDCardSend_StudentNotFound(t *testing.T) {
	handler, _ := newIDCardFixture(t, &stubRenderer{pdf: []byte("x")}, &stubMailer{})

	rec := httptest.NewRecorder()
	handler.Send(rec, newStudentIDRequest(http.MethodPost, "missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIDCardSend_NoMailer(t *testing.T) {
	handler, students := newIDCardFixture(t, &stubRenderer{pdf: []byte("x")}, nil)
	students.students["s1"] = &models.Student{ID: "s1", RollID: "STU-00001", Email: "sam@example.com"}

	rec := httptest.NewRecorder()
	handler.Send(rec, newStudentIDRequest(http.MethodPost, "s1", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestIDCardSend_MailFailure(t *testing.T) {
	mailer := &stubMailer{err: errors.New("smtp down")}
	handler, students := newIDCardFixture(t, &stubRenderer{pdf: []byte("x")}, mailer)
	students.students["s1"] = &models.Student{ID: "s1", RollID: "STU-00001", Email: "sam@example.com"}

	rec := httptest.NewRecorder()
	handler.Send(rec, newStudentIDRequest(http.MethodPost, "s1", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
