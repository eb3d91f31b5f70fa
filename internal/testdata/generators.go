package testdata

import (
	"pgregory.net/rapid"

	"github.com/hikersvoice/e2e/internal/hikerapi"
)

// RatingGenerator generates valid star ratings.
func RatingGenerator() *rapid.Generator[int] {
	return rapid.IntRange(1, 5)
}

// AuthorNameGenerator generates plausible reviewer names.
func AuthorNameGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Z][a-z]{2,10} [A-Z][a-z]{2,12}`)
}

// CountryCodeGenerator generates ISO country codes the site knows about.
func CountryCodeGenerator() *rapid.Generator[string] {
	return rapid.SampledFrom([]string{"GE", "AM", "KG", "TJ", "NP", "AR", "PE"})
}

// ReviewTextGenerator generates review bodies above the minimum length.
func ReviewTextGenerator() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z][A-Za-z0-9 .,!?]{60,300}`)
}

// CompanyParamsGenerator generates full company payloads. Names still get
// the uniqueness marker so generated entities remain traceable.
func CompanyParamsGenerator() *rapid.Generator[hikerapi.CompanyParams] {
	return rapid.Custom(func(t *rapid.T) hikerapi.CompanyParams {
		return hikerapi.CompanyParams{
			Name:        Marker + rapid.StringMatching(`[A-Za-z][A-Za-z0-9 ]{4,30}`).Draw(t, "name"),
			CountryCode: CountryCodeGenerator().Draw(t, "country"),
			Description: rapid.StringMatching(`[A-Za-z0-9 .,]{0,120}`).Draw(t, "description"),
		}
	})
}

// GuideParamsGenerator generates guide payloads with 1 to 3 countries.
func GuideParamsGenerator() *rapid.Generator[hikerapi.GuideParams] {
	return rapid.Custom(func(t *rapid.T) hikerapi.GuideParams {
		return hikerapi.GuideParams{
			Name:      Marker + rapid.StringMatching(`[A-Za-z][A-Za-z ]{4,25}`).Draw(t, "name"),
			Countries: rapid.SliceOfNDistinct(CountryCodeGenerator(), 1, 3, rapid.ID).Draw(t, "countries"),
		}
	})
}
