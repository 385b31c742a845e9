package storage_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormMysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/domain"
	jobPort "gitlab.apk-group.net/siem/backend/project-analyzer/internal/job/port"
	"gitlab.apk-group.net/siem/backend/project-analyzer/pkg/adapter/storage"
	domainFixtures "gitlab.apk-group.net/siem/backend/project-analyzer/tests/fixtures/domain"
)

type JobRepoTestSuite struct {
	db     *sql.DB
	gormDB *gorm.DB
	mock   sqlmock.Sqlmock
	repo   jobPort.Repo
	ctx    context.Context
}

func setupJobRepoTest(t *testing.T) *JobRepoTestSuite {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(gormMysql.New(gormMysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	repo := storage.NewJobRepo(gormDB)
	ctx := context.Background()

	return &JobRepoTestSuite{
		db:     db,
		gormDB: gormDB,
		mock:   mock,
		repo:   repo,
		ctx:    ctx,
	}
}

func (suite *JobRepoTestSuite) tearDown() {
	suite.db.Close()
}

func jobColumns() []string {
	return []string{"id", "job_id", "filename", "status", "summary", "result", "created_at", "updated_at", "completed_at"}
}

func jobRow(job domain.Job) []driver.Value {
	return []driver.Value{
		job.ID, job.JobID.String(), job.Filename, string(job.Status),
		job.Summary, string(job.Result), job.CreatedAt, job.UpdatedAt, job.CompletedAt,
	}
}

func TestJobRepository_Create_Success(t *testing.T) {
	suite := setupJobRepoTest(t)
	defer suite.tearDown()

	jobDomain := domainFixtures.NewTestJob()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("INSERT INTO `jobs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	suite.mock.ExpectCommit()

	jobID, err := suite.repo.Create(suite.ctx, jobDomain)

	assert.NoError(t, err)
	assert.Equal(t, jobDomain.JobID, jobID)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestJobRepository_Create_DuplicateJobID(t *testing.T) {
	suite := setupJobRepoTest(t)
	defer suite.tearDown()

	jobDomain := domainFixtures.NewTestJob()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("INSERT INTO `jobs`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	suite.mock.ExpectRollback()

	_, err := suite.repo.Create(suite.ctx, jobDomain)

	assert.ErrorIs(t, err, domain.ErrDuplicateJobID)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestJobRepository_GetByUUID_Found(t *testing.T) {
	suite := setupJobRepoTest(t)
	defer suite.tearDown()

	jobDomain := domainFixtures.NewTestJobWithStatus(domain.JobStatusCompleted)

	suite.mock.ExpectQuery("SELECT \\* FROM `jobs` WHERE job_id = \\?").
		WillReturnRows(sqlmock.NewRows(jobColumns()).AddRow(jobRow(jobDomain)...))

	found, err := suite.repo.GetByUUID(suite.ctx, jobDomain.JobID)

	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, jobDomain.JobID, found.JobID)
	assert.Equal(t, domain.JobStatusCompleted, found.Status)
	assert.Equal(t, jobDomain.Summary, found.Summary)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestJobRepository_GetByUUID_NotFound(t *testing.T) {
	suite := setupJobRepoTest(t)
	defer suite.tearDown()

	suite.mock.ExpectQuery("SELECT \\* FROM `jobs` WHERE job_id = \\?").
		WillReturnRows(sqlmock.NewRows(jobColumns()))

	found, err := suite.repo.GetByUUID(suite.ctx, domainFixtures.NewTestJob().JobID)

	assert.NoError(t, err)
	assert.Nil(t, found)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestJobRepository_Get_FiltersByStatus(t *testing.T) {
	suite := setupJobRepoTest(t)
	defer suite.tearDown()

	pending := domainFixtures.NewTestJob()

	suite.mock.ExpectQuery("SELECT \\* FROM `jobs` WHERE status = \\? ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(jobColumns()).AddRow(jobRow(pending)...))

	jobs, err := suite.repo.Get(suite.ctx, domain.JobFilters{Status: domain.JobStatusPending})

	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, pending.JobID, jobs[0].JobID)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestJobRepository_Get_SkipsMalformedRows(t *testing.T) {
	suite := setupJobRepoTest(t)
	defer suite.tearDown()

	healthy := domainFixtures.NewTestJob()
	rows := sqlmock.NewRows(jobColumns()).
		AddRow(int64(1), "not-a-uuid", "old.zip", "pending", nil, "{}", time.Now(), time.Now(), nil).
		AddRow(jobRow(healthy)...)

	suite.mock.ExpectQuery("SELECT \\* FROM `jobs` ORDER BY created_at DESC").
		WillReturnRows(rows)

	jobs, err := suite.repo.Get(suite.ctx, domain.JobFilters{})

	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, healthy.JobID, jobs[0].JobID)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestJobRepository_Update_LocksRowAndPersistsMutation(t *testing.T) {
	suite := setupJobRepoTest(t)
	defer suite.tearDown()

	jobDomain := domainFixtures.NewTestJob()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery("SELECT \\* FROM `jobs` WHERE job_id = \\?(.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(jobColumns()).AddRow(jobRow(jobDomain)...))
	suite.mock.ExpectExec("UPDATE `jobs` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	err := suite.repo.Update(suite.ctx, jobDomain.JobID, func(j *domain.Job) error {
		j.Status = domain.JobStatusRunning
		return nil
	})

	assert.NoError(t, err)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestJobRepository_Update_NotFound(t *testing.T) {
	suite := setupJobRepoTest(t)
	defer suite.tearDown()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery("SELECT \\* FROM `jobs` WHERE job_id = \\?(.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(jobColumns()))
	suite.mock.ExpectRollback()

	err := suite.repo.Update(suite.ctx, domainFixtures.NewTestJob().JobID, func(j *domain.Job) error {
		j.Status = domain.JobStatusRunning
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestJobRepository_Update_MutatorErrorAbortsWithoutWriting(t *testing.T) {
	suite := setupJobRepoTest(t)
	defer suite.tearDown()

	jobDomain := domainFixtures.NewTestJobWithStatus(domain.JobStatusRunning)
	claimConflict := errors.New("job already claimed by another worker")

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery("SELECT \\* FROM `jobs` WHERE job_id = \\?(.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(jobColumns()).AddRow(jobRow(jobDomain)...))
	suite.mock.ExpectRollback()

	err := suite.repo.Update(suite.ctx, jobDomain.JobID, func(j *domain.Job) error {
		return claimConflict
	})

	assert.ErrorIs(t, err, claimConflict)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestJobRepository_Delete_Success(t *testing.T) {
	suite := setupJobRepoTest(t)
	defer suite.tearDown()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("DELETE FROM `jobs` WHERE job_id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	suite.mock.ExpectCommit()

	err := suite.repo.Delete(suite.ctx, domainFixtures.NewTestJob().JobID)

	assert.NoError(t, err)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestJobRepository_Delete_NotFound(t *testing.T) {
	suite := setupJobRepoTest(t)
	defer suite.tearDown()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("DELETE FROM `jobs` WHERE job_id = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	suite.mock.ExpectCommit()

	err := suite.repo.Delete(suite.ctx, domainFixtures.NewTestJob().JobID)

	assert.ErrorIs(t, err, domain.ErrJobNotFound)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}

func TestJobRepository_DeleteAll_ReturnsAffectedCount(t *testing.T) {
	suite := setupJobRepoTest(t)
	defer suite.tearDown()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec("DELETE FROM `jobs` WHERE 1 = 1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	suite.mock.ExpectCommit()

	count, err := suite.repo.DeleteAll(suite.ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, suite.mock.ExpectationsWereMet())
}
