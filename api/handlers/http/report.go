package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"gitlab.apk-group.net/siem/backend/project-analyzer/api/service"
)

// GetJSONReport serves the synthesized JSON report as a file download
func GetJSONReport(svcGetter ServiceGetter[*service.ReportService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		file, err := srv.GetJSONReport(c.UserContext(), c.Params("id"))
		if err != nil {
			return jobErrorResponse(c, err)
		}

		return sendReportFile(c, file)
	}
}

// GetPDFReport serves the HTML rendering with attachment headers. Real
// PDF generation is deferred; the HTML prints cleanly in the meantime.
func GetPDFReport(svcGetter ServiceGetter[*service.ReportService]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		srv := svcGetter(c.UserContext())

		file, err := srv.GetHTMLReport(c.UserContext(), c.Params("id"))
		if err != nil {
			return jobErrorResponse(c, err)
		}

		return sendReportFile(c, file)
	}
}

func sendReportFile(c *fiber.Ctx, file *service.ReportFile) error {
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", file.Filename))
	return c.Send(file.Content)
}
