package intake

import (
	"context"
	"fmt"
	"strings"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/setter"
)

const (
	loginPath       = "/User/Login.aspx"
	createJobMarker = "CreateJob.aspx"
)

var postLoginMarkers = []string{"uPostLogin.aspx", "Default.aspx", "Home.aspx", "Main.aspx"}

func byID(v string) entity.Locator    { return entity.Locator{By: entity.ByID, Value: v} }
func byName(v string) entity.Locator  { return entity.Locator{By: entity.ByName, Value: v} }
func byXPath(v string) entity.Locator { return entity.Locator{By: entity.ByXPath, Value: v} }

var (
	companyLocators = []entity.Locator{
		byID("txtCompanyID"),
		byName("CompanyID"),
		byXPath("//input[@placeholder='Company ID']"),
		byXPath("//input[contains(@id, 'Company')]"),
		byXPath("(//input[@type='text'])[1]"),
	}
	usernameLocators = []entity.Locator{
		byID("txtUserName"),
		byID("txtUsername"),
		byName("UserName"),
		byName("Username"),
		byXPath("//input[@placeholder='User Name']"),
		byXPath("//input[contains(@id, 'User')]"),
		byXPath("(//input[@type='text'])[2]"),
	}
	passwordLocators = []entity.Locator{
		byID("txtPassword"),
		byName("Password"),
		byXPath("//input[@placeholder='Password']"),
		byXPath("//input[contains(@id, 'Password')]"),
		byXPath("//input[@type='password']"),
	}
	loginButtonLocators = []entity.Locator{
		byID("btnLogin"),
		byXPath("//input[@value='Login']"),
		byXPath("//button[contains(text(), 'Login')]"),
		byXPath("//input[@type='submit']"),
		byXPath("//button[@type='submit']"),
		byXPath("//input[contains(@value, 'Log')]"),
		byXPath("//button[contains(@class, 'btn')]"),
	}
)

func (uc *UseCase) login(ctx context.Context, fc *setter.FormContext) error {
	if err := fc.Page.Navigate(ctx, uc.cfg.LoginURL); err != nil {
		return fmt.Errorf("%w: open login page: %v", entity.ErrLoginFailed, err)
	}

	inputs := []struct {
		label    string
		locators []entity.Locator
		value    string
	}{
		{"company id", companyLocators, uc.cfg.CompanyID},
		{"username", usernameLocators, uc.cfg.Username},
		{"password", passwordLocators, uc.cfg.Password},
	}
	for _, in := range inputs {
		el, err := uc.first(ctx, fc, in.locators)
		if err != nil {
			return fmt.Errorf("%w: %s field not found", entity.ErrLoginFailed, in.label)
		}
		if err := el.Type(in.value); err != nil {
			return fmt.Errorf("%w: enter %s: %v", entity.ErrLoginFailed, in.label, err)
		}
		fc.Logger.Debug("Login field entered", "field", in.label)
	}

	btn, err := uc.first(ctx, fc, loginButtonLocators)
	if err != nil {
		return fmt.Errorf("%w: login button not found", entity.ErrLoginFailed)
	}
	if err := btn.Click(); err != nil {
		if err := btn.ScriptClick(); err != nil {
			return fmt.Errorf("%w: click login: %v", entity.ErrLoginFailed, err)
		}
	}

	url, ok := uc.pollURL(ctx, fc.Page, uc.cfg.LoginTimeout, loggedIn)
	if !ok {
		return fmt.Errorf("%w: still on %s", entity.ErrLoginFailed, url)
	}
	fc.Logger.Info("Logged in", "url", url)
	return nil
}

func loggedIn(url string) bool {
	for _, m := range postLoginMarkers {
		if strings.Contains(url, m) {
			return true
		}
	}
	return url != "" && !strings.Contains(url, loginPath)
}

// first returns the first element any of the locators finds. Each locator
// gets a short share of the element timeout.
func (uc *UseCase) first(ctx context.Context, fc *setter.FormContext, locators []entity.Locator) (output.Element, error) {
	per := fc.Timeout / 4
	var lastErr error
	for _, loc := range locators {
		el, err := fc.Page.Find(ctx, loc, per)
		if err == nil {
			return el, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (uc *UseCase) navigate(ctx context.Context, fc *setter.FormContext) error {
	onForm := func(u string) bool { return strings.Contains(u, createJobMarker) }

	if err := fc.Page.Navigate(ctx, uc.cfg.CreateJobURL); err != nil {
		fc.Logger.Warn("Direct navigation failed", "error", err)
	} else if url, ok := uc.pollURL(ctx, fc.Page, fc.Timeout, onForm); ok {
		fc.Logger.Info("On job creation page", "url", url)
		return nil
	}

	if err := fc.Page.Redirect(ctx, uc.cfg.CreateJobURL); err != nil {
		return fmt.Errorf("%w: %v", entity.ErrNavigationFailed, err)
	}
	url, ok := uc.pollURL(ctx, fc.Page, fc.Timeout, onForm)
	if !ok {
		return fmt.Errorf("%w: landed on %s", entity.ErrNavigationFailed, url)
	}
	fc.Logger.Info("On job creation page after redirect", "url", url)
	return nil
}
