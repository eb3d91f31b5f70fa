// Guide lookup scenarios: duplicate-named guides must be tellable apart in
// the autocomplete dropdown through their extended info line.
package browser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hikersvoice/e2e/internal/hikerapi"
	"github.com/hikersvoice/e2e/internal/testdata"
	"github.com/hikersvoice/e2e/tests/browser/pages"
)

func TestGuideLookup_ExtendedInfoDistinguishesDuplicates(t *testing.T) {
	env := SetupSuiteEnv(t)
	env.InitBrowser(t)
	scope := env.NewScope(t)

	// Two guides with the same name but different countries and contacts.
	name := testdata.UniqueName("Guide")
	first := createGuide(t, env, scope, hikerapi.GuideParams{
		Name:            name,
		Countries:       []string{"GE", "AM"},
		ContactTelegram: "@first_" + testdata.UniqueEmail()[:8],
	}, true)
	second := createGuide(t, env, scope, hikerapi.GuideParams{
		Name:            name,
		Countries:       []string{"NP"},
		ContactTelegram: "@second_" + testdata.UniqueEmail()[:8],
	}, true)
	require.NotEqual(t, first.ID, second.ID)

	for _, tc := range []struct {
		label         string
		kind          pages.ReviewType
		inCompanyForm bool
	}{
		{"guide_review_form", pages.GuideReview, false},
		{"company_review_form", pages.CompanyReview, true},
	} {
		t.Run(tc.label, func(t *testing.T) {
			page := env.NewPage(t)
			form := startReviewForm(t, env, page, tc.kind)

			require.NoError(t, form.TypeGuideSearch(searchPrefix(name), tc.inCompanyForm))

			items, err := form.GuideDropdownItems()
			require.NoError(t, err)

			var matches []pages.DropdownGuide
			for _, item := range items {
				if item.Name == name {
					matches = append(matches, item)
				}
			}
			require.Len(t, matches, 2, "both same-named guides listed")
			require.NotEmpty(t, matches[0].Info, "extended info line present")
			require.NotEmpty(t, matches[1].Info, "extended info line present")
			require.NotEqual(t, matches[0].Info, matches[1].Info,
				"info lines distinguish the duplicates")
		})
	}
}
