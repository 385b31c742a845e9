package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gitlab.apk-group.net/siem/backend/project-analyzer/api/service"
)

// Health reports service liveness
func Health() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "project-analyzer",
		})
	}
}

// UploadProject accepts a multipart .zip archive and submits it as a job
func UploadProject(svcGetter ServiceGetter[*service.JobService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": service.ErrMissingFile.Error(),
			})
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		defer file.Close()

		res, err := srv.Upload(c.UserContext(), fileHeader.Filename, file)
		if err != nil {
			if errors.Is(err, service.ErrMissingFile) || errors.Is(err, service.ErrNotZipArchive) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GetJobs lists job summaries, newest first
func GetJobs(svcGetter ServiceGetter[*service.JobService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		res, err := srv.ListJobs(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(res)
	}
}

// GetJobByID retrieves a single job including its result document
func GetJobByID(svcGetter ServiceGetter[*service.JobService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		res, err := srv.GetJob(c.UserContext(), c.Params("id"))
		if err != nil {
			return jobErrorResponse(c, err)
		}

		return c.JSON(res)
	}
}

// DeleteJob removes one job and its workspace files
func DeleteJob(svcGetter ServiceGetter[*service.JobService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		res, err := srv.DeleteJob(c.UserContext(), c.Params("id"))
		if err != nil {
			return jobErrorResponse(c, err)
		}

		return c.JSON(res)
	}
}

// DeleteAllJobs removes every job
func DeleteAllJobs(svcGetter ServiceGetter[*service.JobService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		res, err := srv.DeleteAllJobs(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		return c.JSON(res)
	}
}

func jobErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrJobNotFound), errors.Is(err, service.ErrInvalidJobUUID):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Job not found",
		})
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
