package handlers_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	handlers "gitlab.apk-group.net/siem/backend/project-analyzer/api/handlers/http"
	"gitlab.apk-group.net/siem/backend/project-analyzer/api/service"
	jobDomain "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
	domainFixtures "gitlab.apk-group.net/siem/backend/project-analyzer/tests/fixtures/domain"
	serviceMocks "gitlab.apk-group.net/siem/backend/project-analyzer/tests/mocks/service"
)

func jobServiceGetter(srv *service.JobService) handlers.ServiceGetter[*service.JobService] {
	return func(context.Context) *service.JobService {
		return srv
	}
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}

func TestHealthHandler(t *testing.T) {
	app := fiber.New()
	app.Get("/health", handlers.Health())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "project-analyzer", body["service"])
}

func TestUploadProjectHandler_MissingFile(t *testing.T) {
	mockService := new(serviceMocks.MockJobService)
	app := fiber.New()
	app.Post("/upload", handlers.UploadProject(jobServiceGetter(service.NewJobService(mockService))))

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "no file provided", body["error"])
	mockService.AssertNotCalled(t, "SubmitJob", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadProjectHandler_Success(t *testing.T) {
	testJob := domainFixtures.NewTestJob()
	mockService := new(serviceMocks.MockJobService)
	mockService.On("SubmitJob", mock.Anything, "project.zip", mock.Anything).
		Return(&testJob, nil)

	app := fiber.New()
	app.Post("/upload", handlers.UploadProject(jobServiceGetter(service.NewJobService(mockService))))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "project.zip")
	require.NoError(t, err)
	zipWriter := zip.NewWriter(part)
	entry, err := zipWriter.Create("app.py")
	require.NoError(t, err)
	_, err = entry.Write([]byte("print('hello')\n"))
	require.NoError(t, err)
	require.NoError(t, zipWriter.Close())
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body service.UploadResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, testJob.JobID.String(), body.JobID)
	assert.Equal(t, "pending", body.Status)
	mockService.AssertExpectations(t)
}

func TestUploadProjectHandler_RejectsNonZip(t *testing.T) {
	mockService := new(serviceMocks.MockJobService)
	mockService.On("SubmitJob", mock.Anything, "notes.txt", mock.Anything).
		Return(nil, jobDomain.ErrNotZipArchive)

	app := fiber.New()
	app.Post("/upload", handlers.UploadProject(jobServiceGetter(service.NewJobService(mockService))))

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "only .zip archives are accepted", body["error"])
}

func TestGetJobsHandler(t *testing.T) {
	jobs := []jobDomain.Job{
		domainFixtures.NewTestJobWithStatus(jobDomain.JobStatusCompleted),
		domainFixtures.NewTestJob(),
	}
	mockService := new(serviceMocks.MockJobService)
	mockService.On("GetJobs", mock.Anything, jobDomain.JobFilters{}).Return(jobs, nil)

	app := fiber.New()
	app.Get("/jobs", handlers.GetJobs(jobServiceGetter(service.NewJobService(mockService))))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/jobs", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body []service.JobSummary
	decodeBody(t, resp, &body)
	require.Len(t, body, 2)
	assert.Equal(t, jobs[0].JobID.String(), body[0].JobID)
	assert.Equal(t, "completed", body[0].Status)
	assert.Equal(t, "pending", body[1].Status)
}

func TestGetJobByIDHandler(t *testing.T) {
	tests := []struct {
		name           string
		jobID          string
		setupMock      func(*serviceMocks.MockJobService)
		expectedStatus int
		validateBody   func(t *testing.T, resp *http.Response)
	}{
		{
			name:  "existing job with result",
			jobID: "",
			setupMock: func(m *serviceMocks.MockJobService) {
				job := domainFixtures.NewTestJobWithStatus(jobDomain.JobStatusCompleted)
				job.Result = json.RawMessage(`{"bandit": {"ok": {"results": []}}}`)
				m.On("GetJobByUUID", mock.Anything, mock.Anything).Return(&job, nil)
			},
			expectedStatus: fiber.StatusOK,
			validateBody: func(t *testing.T, resp *http.Response) {
				var body service.JobDetail
				decodeBody(t, resp, &body)
				assert.Equal(t, "completed", body.Status)
				assert.JSONEq(t, `{"bandit": {"ok": {"results": []}}}`, string(body.Result))
			},
		},
		{
			name:  "unknown job",
			jobID: uuid.NewString(),
			setupMock: func(m *serviceMocks.MockJobService) {
				m.On("GetJobByUUID", mock.Anything, mock.Anything).Return(nil, nil)
			},
			expectedStatus: fiber.StatusNotFound,
			validateBody: func(t *testing.T, resp *http.Response) {
				var body map[string]string
				decodeBody(t, resp, &body)
				assert.Equal(t, "Job not found", body["error"])
			},
		},
		{
			name:           "malformed job id",
			jobID:          "not-a-uuid",
			setupMock:      func(*serviceMocks.MockJobService) {},
			expectedStatus: fiber.StatusNotFound,
			validateBody: func(t *testing.T, resp *http.Response) {
				var body map[string]string
				decodeBody(t, resp, &body)
				assert.Equal(t, "Job not found", body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(serviceMocks.MockJobService)
			tt.setupMock(mockService)

			app := fiber.New()
			app.Get("/jobs/:id", handlers.GetJobByID(jobServiceGetter(service.NewJobService(mockService))))

			jobID := tt.jobID
			if jobID == "" {
				jobID = uuid.NewString()
			}
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/jobs/"+jobID, nil))

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			tt.validateBody(t, resp)
		})
	}
}

func TestDeleteJobHandler(t *testing.T) {
	jobID := uuid.New()
	mockService := new(serviceMocks.MockJobService)
	mockService.On("DeleteJob", mock.Anything, jobID).Return(nil)

	app := fiber.New()
	app.Delete("/jobs/:id", handlers.DeleteJob(jobServiceGetter(service.NewJobService(mockService))))

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/jobs/"+jobID.String(), nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body service.DeleteResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Job "+jobID.String()+" deleted successfully", body.Message)
	mockService.AssertExpectations(t)
}

func TestDeleteJobHandler_NotFound(t *testing.T) {
	jobID := uuid.New()
	mockService := new(serviceMocks.MockJobService)
	mockService.On("DeleteJob", mock.Anything, jobID).Return(jobDomain.ErrJobNotFound)

	app := fiber.New()
	app.Delete("/jobs/:id", handlers.DeleteJob(jobServiceGetter(service.NewJobService(mockService))))

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/jobs/"+jobID.String(), nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDeleteAllJobsHandler(t *testing.T) {
	mockService := new(serviceMocks.MockJobService)
	mockService.On("DeleteAllJobs", mock.Anything).Return(int64(3), nil)

	app := fiber.New()
	app.Delete("/jobs", handlers.DeleteAllJobs(jobServiceGetter(service.NewJobService(mockService))))

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/jobs", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body service.DeleteAllResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "All jobs deleted successfully", body.Message)
	assert.Equal(t, int64(3), body.DeletedCount)
}
