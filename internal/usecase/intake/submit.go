package intake

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/setter"
)

const (
	saveButtonID  = "ctl00_ContentPlaceHolder1_JobParentInformation_Button_SaveAndGoToSlideBoardBottom"
	landingMarker = "Board.aspx"

	queryJobNumber = "JobNumber"
	queryJobID     = "JobId"
)

var submitLocators = []entity.Locator{
	byID(saveButtonID),
	byXPath("//*[@id='" + saveButtonID + "']"),
	byXPath("//*[contains(@id, 'Button_SaveAndGoToSlideBoard')]"),
	byXPath("//input[@type='submit' and contains(@value, 'Save')]"),
	byXPath("//button[contains(text(), 'Save')]"),
}

func (uc *UseCase) submit(ctx context.Context, fc *setter.FormContext) error {
	btn, err := uc.first(ctx, fc, submitLocators)
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrSubmitNotFound, err)
	}
	if err := btn.Click(); err != nil {
		fc.Logger.Warn("Native submit click failed, using script click", "error", err)
		if err := btn.ScriptClick(); err != nil {
			return fmt.Errorf("%w: click: %v", entity.ErrSubmitNotFound, err)
		}
	}
	fc.Logger.Info("Form submitted")
	return nil
}

// awaitLanding waits for the post-save redirect. Not reaching it is logged
// and the current URL is used as is.
func (uc *UseCase) awaitLanding(ctx context.Context, fc *setter.FormContext) string {
	url, ok := uc.pollURL(ctx, fc.Page, uc.cfg.SubmitTimeout, func(u string) bool {
		return strings.Contains(u, landingMarker)
	})
	if !ok {
		fc.Logger.Warn("Landing page not reached before timeout", "url", url, "timeout", uc.cfg.SubmitTimeout)
	}
	return url
}

// extractIdentifiers reads the job number and id from the landing URL. Both
// or neither are returned.
func extractIdentifiers(landing string, log output.LoggerPort) map[string]string {
	u, err := url.Parse(landing)
	if err != nil {
		log.Warn("Landing URL not parseable", "url", landing, "error", err)
		return nil
	}
	q := u.Query()
	number, jobID := strings.TrimSpace(q.Get(queryJobNumber)), strings.TrimSpace(q.Get(queryJobID))

	switch {
	case number != "" && jobID != "":
		return map[string]string{
			entity.IdentifierJobNumber: number,
			entity.IdentifierJobID:     jobID,
		}
	case number != "" || jobID != "":
		log.Warn("Partial identifiers in landing URL, dropping both", "job_number", number, "job_id", jobID)
	default:
		log.Info("No identifiers in landing URL", "url", landing)
	}
	return nil
}
