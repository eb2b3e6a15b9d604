package intake

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhammadNoman15/kyle-automation/internal/application/port/output"
	"github.com/MuhammadNoman15/kyle-automation/internal/domain/entity"
	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/fieldmap"
	"github.com/MuhammadNoman15/kyle-automation/internal/infrastructure/logger"
	"github.com/MuhammadNoman15/kyle-automation/internal/simdom"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/locator"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/popup"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/section"
	"github.com/MuhammadNoman15/kyle-automation/internal/usecase/setter"
)

const (
	testLoginURL  = "https://host.test/Enterprise/Module/User/Login.aspx"
	testCreateURL = "https://host.test/Enterprise/Module/Job/CreateJob.aspx"
	testPostLogin = "https://host.test/Enterprise/Module/User/uPostLogin.aspx"
	testBoardURL  = "https://host.test/Enterprise/Module/Job/Board.aspx?JobNumber=J-1001&JobId=42"
)

const testTable = `
sections:
  - name: generalInformation
    fields:
      - {name: jobName, id: job, kind: plain_text}
  - name: customerInformation
    discriminator:
      field: customerType
      default: Individual
      settle: 1ms
      variants:
        - value: Individual
          switch: {id: rbIndividual, kind: radio, checked: true}
          fields:
            - {name: firstName, id: first, kind: plain_text}
        - value: Company
          switch: {id: rbCompany, kind: radio, checked: true}
          fields:
            - {name: companyName, id: company, kind: plain_text}
  - name: division
    fields:
      - name: servicesSelected
        options:
          - {label: Mold, id: mold}
`

type fakeDiagnostics struct {
	labels []string
}

func (f *fakeDiagnostics) Capture(ctx context.Context, page output.Page, label string) ([]string, error) {
	f.labels = append(f.labels, label)
	return []string{label + ".jpg"}, nil
}

type fixture struct {
	uc      *UseCase
	page    *simdom.Page
	session *simdom.Session
	factory *simdom.Factory
	diag    *fakeDiagnostics
	save    *simdom.Element
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalog, err := fieldmap.Parse([]byte(testTable))
	require.NoError(t, err)
	return newFixtureWithCatalog(t, catalog)
}

func newFixtureWithCatalog(t *testing.T, catalog *fieldmap.Catalog) *fixture {
	t.Helper()

	page := simdom.NewPage()
	page.AddID("txtCompanyID", &simdom.Element{})
	page.AddID("txtUserName", &simdom.Element{})
	page.AddID("txtPassword", &simdom.Element{})
	page.AddID("btnLogin", &simdom.Element{OnClick: func(p *simdom.Page) { p.URL = testPostLogin }})
	page.AddID("job", &simdom.Element{})
	page.AddID("first", &simdom.Element{})
	page.AddID("company", &simdom.Element{})
	page.AddID("rbIndividual", &simdom.Element{IsRadio: true})
	page.AddID("rbCompany", &simdom.Element{IsRadio: true})
	page.AddID("mold", &simdom.Element{IsToggle: true})
	save := page.AddID(saveButtonID, &simdom.Element{OnClick: func(p *simdom.Page) { p.URL = testBoardURL }})

	session := simdom.NewSession(page)
	factory := &simdom.Factory{Session: session}
	diag := &fakeDiagnostics{}

	popupCfg := popup.DefaultConfig()
	popupCfg.Pause = 0

	uc := New(Config{
		LoginURL:       testLoginURL,
		CreateJobURL:   testCreateURL,
		CompanyID:      "1000",
		Username:       "user",
		Password:       "secret",
		ElementTimeout: 20 * time.Millisecond,
		LoginTimeout:   20 * time.Millisecond,
		SubmitTimeout:  20 * time.Millisecond,
		PollInterval:   time.Millisecond,
	},
		factory,
		catalog,
		section.New(setter.New(locator.New(20*time.Millisecond))),
		popup.New(popupCfg),
		diag,
		logger.NewNop(),
	)

	return &fixture{uc: uc, page: page, session: session, factory: factory, diag: diag, save: save}
}

func individualPayload() entity.Payload {
	return entity.Payload{
		"generalInformation":  map[string]any{"jobName": "Smith, John - Water Damage"},
		"customerInformation": map[string]any{"customerType": "Individual", "firstName": "John"},
		"division":            map[string]any{"servicesSelected": []any{"Mold"}},
	}
}

func TestRun_HappyPath(t *testing.T) {
	f := newFixture(t)

	result, err := f.uc.Run(context.Background(), individualPayload())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []entity.Stage{
		entity.StageInit, entity.StageAuthenticated, entity.StageNavigated, entity.StageFilled,
		entity.StageSubmitted, entity.StageExtracted, entity.StageClosed,
	}, result.Stages)
	assert.Equal(t, map[string]string{"job_number": "J-1001", "job_id": "42"}, result.Identifiers)
	assert.Equal(t, testBoardURL, result.LandingURL)
	assert.Len(t, result.Sections, 3)
	assert.Equal(t, 1, f.session.Closes)
	assert.Empty(t, f.diag.labels)

	assert.True(t, f.page.Called("type txtPassword secret"))
	assert.True(t, f.page.Called("navigate "+testCreateURL))
	assert.True(t, f.page.Called("type job Smith, John - Water Damage"))
}

func TestRun_IndividualCustomerWithFormTable(t *testing.T) {
	const (
		prefix      = "ctl00_ContentPlaceHolder1_JobParentInformation_"
		individual  = prefix + "RadioButton_IndividualCustomer"
		phone       = prefix + "TextBox_MainPhone"
		water       = prefix + "CheckBox_WaterMitigation"
		firstName   = prefix + "TextBox_FirstName"
		lastName    = prefix + "TextBox_LastName"
		jobName     = prefix + "GenaralInfo_JobNameRadTextBox"
		companyName = prefix + "DropDown_Customer_Input"
	)

	f := newFixtureWithCatalog(t, fieldmap.Default())
	f.page.WidgetRuntime = true
	for _, id := range []string{
		prefix + "GenaralInfo_comboBoxOffice",
		prefix + "GenaralInfo_comboBox_LossCategory",
		prefix + "comboBox_CustomerCounty",
		prefix + "DropDown_Country",
		prefix + "DropDown_State",
		phone,
	} {
		f.page.Widget(id, nil)
	}
	for _, id := range []string{jobName, firstName, lastName, prefix + "TextBox_Address_Input", prefix + "TextBox_Zip", prefix + "TextBox_City"} {
		f.page.AddID(id, &simdom.Element{})
	}
	radio := f.page.AddID(individual, &simdom.Element{IsRadio: true})
	box := f.page.AddID(water, &simdom.Element{IsToggle: true})

	payload := entity.Payload{
		"generalInformation": map[string]any{
			"officeName":   "SPSC, LLC",
			"lossCategory": "Residential",
			"jobName":      "Test Job",
		},
		"customerInformation": map[string]any{
			"customerType":    "Individual",
			"firstName":       "John",
			"lastName":        "Smith",
			"address":         "123 Main St",
			"zipCode":         "30309",
			"city":            "Atlanta",
			"countyRegion":    "Fulton",
			"country":         "USA",
			"stateProvince":   "Georgia",
			"mainPhoneNumber": map[string]any{"number": "14045551234"},
		},
		"division": map[string]any{"servicesSelected": []any{"Water Mitigation"}},
	}

	result, err := f.uc.Run(context.Background(), payload)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []entity.Stage{
		entity.StageInit, entity.StageAuthenticated, entity.StageNavigated, entity.StageFilled,
		entity.StageSubmitted, entity.StageExtracted, entity.StageClosed,
	}, result.Stages)

	assert.True(t, radio.Check)
	assert.True(t, box.Check)
	assert.Equal(t, "+1 (404) 555-1234", f.page.WidgetValues[phone])
	assert.Equal(t, "SPSC, LLC", f.page.WidgetValues[prefix+"GenaralInfo_comboBoxOffice"])
	assert.True(t, f.page.Called("type "+firstName+" John"))
	assert.True(t, f.page.Called("type "+lastName+" Smith"))
	assert.True(t, f.page.Called("type "+jobName+" Test Job"))

	require.Len(t, result.Sections, 3)
	customer := result.Sections[1]
	assert.Equal(t, entity.SectionName("customerInformation"), customer.Section)
	assert.Equal(t, "Individual", customer.Variant)
	assert.True(t, customer.Touched("mainPhoneNumber.number"))
	assert.False(t, customer.Touched("companyName"))
	assert.False(t, customer.Touched("companyEmail"))
	assert.False(t, f.page.LookedUp(companyName))
	for _, section := range result.Sections {
		for _, o := range section.Outcomes {
			if o.Attempted {
				assert.True(t, o.Succeeded, "%s.%s: %s", section.Section, o.Field, o.Detail)
			}
		}
	}
}

func TestRun_PartialIdentifiersDropped(t *testing.T) {
	f := newFixture(t)
	f.save.OnClick = func(p *simdom.Page) { p.URL = "https://host.test/Job/Board.aspx?JobNumber=J-1001" }

	result, err := f.uc.Run(context.Background(), individualPayload())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Nil(t, result.Identifiers)
	_, ok := result.Identifier(entity.IdentifierJobNumber)
	assert.False(t, ok)
	assert.True(t, result.Reached(entity.StageExtracted))
}

func TestRun_LandingTimeoutIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.save.OnClick = nil

	result, err := f.uc.Run(context.Background(), individualPayload())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Nil(t, result.Identifiers)
	assert.Equal(t, testCreateURL, result.LandingURL)
}

func TestRun_SubmitScriptClickFallback(t *testing.T) {
	f := newFixture(t)
	f.save.FailClick = true

	result, err := f.uc.Run(context.Background(), individualPayload())

	require.NoError(t, err)
	assert.True(t, f.page.Called("script-click "+saveButtonID))
	assert.Equal(t, "42", result.Identifiers[entity.IdentifierJobID])
}

func TestRun_SessionUnavailable(t *testing.T) {
	f := newFixture(t)
	f.factory.Err = errors.New("chrome missing")

	result, err := f.uc.Run(context.Background(), individualPayload())

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrSessionUnavailable)
	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "chrome missing")
	assert.Equal(t, []entity.Stage{entity.StageInit, entity.StageFailed, entity.StageClosed}, result.Stages)
	assert.Zero(t, f.session.Closes)
}

func TestRun_LoginFailureClosesOnceAndCapturesDiagnostics(t *testing.T) {
	f := newFixture(t)
	page := simdom.NewPage()
	page.AddID("txtCompanyID", &simdom.Element{})
	page.AddID("txtUserName", &simdom.Element{})
	page.AddID("txtPassword", &simdom.Element{})
	page.AddID("btnLogin", &simdom.Element{})
	session := simdom.NewSession(page)
	f.factory.Session = session

	result, err := f.uc.Run(context.Background(), individualPayload())

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrLoginFailed)
	assert.False(t, result.Success)
	assert.Equal(t, []entity.Stage{entity.StageInit, entity.StageFailed, entity.StageClosed}, result.Stages)
	assert.Equal(t, 1, session.Closes)
	assert.Len(t, f.diag.labels, 1)
}

func TestRun_MissingLoginField(t *testing.T) {
	f := newFixture(t)
	page := simdom.NewPage()
	session := simdom.NewSession(page)
	f.factory.Session = session

	_, err := f.uc.Run(context.Background(), individualPayload())

	assert.ErrorIs(t, err, entity.ErrLoginFailed)
	assert.Contains(t, err.Error(), "company id")
	assert.Equal(t, 1, session.Closes)
}

func TestRun_NavigationFailure(t *testing.T) {
	f := newFixture(t)
	f.page.Routes[testCreateURL] = "https://host.test/Enterprise/Module/User/AccessDenied.aspx"

	result, err := f.uc.Run(context.Background(), individualPayload())

	assert.ErrorIs(t, err, entity.ErrNavigationFailed)
	assert.True(t, result.Reached(entity.StageAuthenticated))
	assert.False(t, result.Reached(entity.StageNavigated))
	assert.True(t, f.page.Called("redirect "+testCreateURL))
	assert.Equal(t, 1, f.session.Closes)
}

func TestRun_RedirectFallback(t *testing.T) {
	f := newFixture(t)
	f.page.RedirectOnly = true

	result, err := f.uc.Run(context.Background(), individualPayload())

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, f.page.Called("redirect "+testCreateURL))
}

func TestRun_SubmitNotFound(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.save.Remove())

	result, err := f.uc.Run(context.Background(), individualPayload())

	assert.ErrorIs(t, err, entity.ErrSubmitNotFound)
	assert.True(t, result.Reached(entity.StageFilled))
	assert.False(t, result.Reached(entity.StageSubmitted))
	assert.Len(t, f.diag.labels, 1)
}

func TestRun_SwitchFailureKeepsFillingButDoesNotSubmit(t *testing.T) {
	f := newFixture(t)
	f.page.Drop(byID("rbCompany"))

	payload := individualPayload()
	payload["customerInformation"] = map[string]any{"customerType": "Company", "companyName": "ABC"}

	result, err := f.uc.Run(context.Background(), payload)

	assert.ErrorIs(t, err, entity.ErrDiscriminatorSwitch)
	assert.False(t, result.Success)
	require.Len(t, result.Sections, 3)
	assert.NotEmpty(t, result.Sections[1].Err)
	assert.True(t, result.Sections[2].Touched("servicesSelected.Mold"))
	assert.False(t, f.page.Called("click "+saveButtonID))
	assert.False(t, result.Reached(entity.StageFilled))
}

func TestRun_SkipsAbsentSections(t *testing.T) {
	f := newFixture(t)

	result, err := f.uc.Run(context.Background(), entity.Payload{
		"generalInformation": map[string]any{"jobName": "Only"},
	})

	require.NoError(t, err)
	require.Len(t, result.Sections, 1)
	assert.Equal(t, entity.SectionGeneralInformation, result.Sections[0].Section)
}

func TestExtractIdentifiers(t *testing.T) {
	log := logger.NewNop()

	assert.Equal(t, map[string]string{"job_number": "7", "job_id": "8"},
		extractIdentifiers("https://h/Board.aspx?JobId=8&JobNumber=7", log))
	assert.Nil(t, extractIdentifiers("https://h/Board.aspx?JobId=8", log))
	assert.Nil(t, extractIdentifiers("https://h/Board.aspx", log))
	assert.Nil(t, extractIdentifiers("://bad", log))
}

func TestLoggedIn(t *testing.T) {
	assert.True(t, loggedIn(testPostLogin))
	assert.True(t, loggedIn("https://host.test/Enterprise/Home.aspx"))
	assert.True(t, loggedIn("https://host.test/Enterprise/Module/Dashboard"))
	assert.False(t, loggedIn(testLoginURL))
	assert.False(t, loggedIn(""))
}
