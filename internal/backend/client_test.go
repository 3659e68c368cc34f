package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/medicare-hq/staff-console/pkg/errors"
)

func newTestAdminClient(t *testing.T, handler http.HandlerFunc, creds TokenSource) (*AdminClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := zerolog.Nop()
	return NewAdminClient(NewClient(srv.URL, srv.Client(), creds, &logger)), srv
}

func TestBearerHeaderAttachedWhenTokenPresent(t *testing.T) {
	var gotAuth string
	client, _ := newTestAdminClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}, StaticToken("tok-123"))

	_, err := client.ListAppointments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestBearerHeaderOmittedWhenTokenAbsent(t *testing.T) {
	var hasAuth bool
	client, _ := newTestAdminClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`[]`))
	}, NoToken)

	_, err := client.ListAppointments(context.Background())
	require.NoError(t, err)
	assert.False(t, hasAuth, "no token means no Authorization header at all")
}

func TestRequestTokenOverridesClientCredential(t *testing.T) {
	var gotAuth string
	client, _ := newTestAdminClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}, StaticToken("service-token"))

	ctx := WithRequestToken(context.Background(), "staff-token")
	_, err := client.ListAppointments(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer staff-token", gotAuth)
}

func TestUpdateStatusQueryParams(t *testing.T) {
	var gotQuery map[string][]string
	var gotPath, gotMethod string
	client, _ := newTestAdminClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"status":"success"}`))
	}, StaticToken("tok"))

	err := client.UpdateStatus(context.Background(), ItemTypeAppointment, 42, "rescheduled", &Reschedule{
		Date: "2026-09-01",
		Time: "14:00",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/admin/update_status", gotPath)
	assert.Equal(t, []string{"appointment"}, gotQuery["item_type"])
	assert.Equal(t, []string{"42"}, gotQuery["item_id"])
	assert.Equal(t, []string{"rescheduled"}, gotQuery["new_status"])
	assert.Equal(t, []string{"2026-09-01"}, gotQuery["new_date"])
	assert.Equal(t, []string{"14:00"}, gotQuery["new_time"])
}

func TestUpdateStatusWithoutRescheduleOmitsSlotParams(t *testing.T) {
	var gotQuery map[string][]string
	client, _ := newTestAdminClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"status":"success"}`))
	}, StaticToken("tok"))

	require.NoError(t, client.UpdateStatus(context.Background(), ItemTypePrescription, 9, "ready", nil))

	assert.NotContains(t, gotQuery, "new_date")
	assert.NotContains(t, gotQuery, "new_time")
}

func TestNonTwoHundredBecomesHTTPError(t *testing.T) {
	client, _ := newTestAdminClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}, StaticToken("tok"))

	err := client.UpdateStatus(context.Background(), ItemTypeAppointment, 1, "confirmed", nil)
	require.Error(t, err)

	var httpErr *apperrors.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
}

func TestTransportFailureBecomesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	logger := zerolog.Nop()
	client := NewAdminClient(NewClient(url, http.DefaultClient, NoToken, &logger))

	_, err := client.ListAppointments(context.Background())
	require.Error(t, err)

	var netErr *apperrors.NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestNonSequencePayloadBecomesEmptyList(t *testing.T) {
	client, _ := newTestAdminClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"detail":"unexpected shape"}`))
	}, StaticToken("tok"))

	appointments, err := client.ListAppointments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, appointments)
	assert.Empty(t, appointments)

	orders, err := client.ListPharmacyQueue(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestLoginParsesResponse(t *testing.T) {
	client, _ := newTestAdminClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"access_token":"jwt-abc","name":"Dr. Adams","role":"doctor","user_id":5}`))
	}, NoToken)

	resp, err := client.Login(context.Background(), "adams@clinic.test", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", resp.AccessToken)
	assert.Equal(t, "Dr. Adams", resp.Name)
	assert.Equal(t, "doctor", resp.Role)
}

func TestUploadPrescriptionIsMultipart(t *testing.T) {
	var contentType string
	var fields map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		fields = map[string]string{"patient_id": r.FormValue("patient_id")}
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		fields["filename"] = header.Filename
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	client := NewPatientClient(NewClient(srv.URL, srv.Client(), StaticToken("tok"), &logger))

	err := client.UploadPrescription(context.Background(), 5, "rx.jpg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data"))
	assert.Equal(t, "5", fields["patient_id"])
	assert.Equal(t, "rx.jpg", fields["filename"])
}

func TestListDoctorsUsesRosterCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`[{"id":1,"name":"Dr. Adams"}]`))
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	client := NewPatientClient(NewClient(srv.URL, srv.Client(), NoToken, &logger))

	first, err := client.ListDoctors(context.Background())
	require.NoError(t, err)
	second, err := client.ListDoctors(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, hits, "second lookup is served from the roster cache")

	client.InvalidateRoster()
	_, err = client.ListDoctors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, hits)
}

func TestListSlotsQuery(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`["09:00","09:30"]`))
	}))
	defer srv.Close()

	logger := zerolog.Nop()
	client := NewPatientClient(NewClient(srv.URL, srv.Client(), NoToken, &logger))

	slots, err := client.ListSlots(context.Background(), 3, "2026-09-01")
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00", "09:30"}, slots)
	assert.Equal(t, []string{"3"}, gotQuery["doctor_id"])
	assert.Equal(t, []string{"2026-09-01"}, gotQuery["date_str"])
}
