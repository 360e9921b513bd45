package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrongPassword(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"Sup3r$ecret", true},
		{"Aa1!aaaa", true},
		{"short1A!", true},
		{"A1!a", false},           // too short
		{"alllowercase1!", false}, // no upper
		{"ALLUPPERCASE1!", false}, // no lower
		{"NoDigitsHere!", false},
		{"NoSpecials123", false},
		{"", false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StrongPassword(tc.password), "password %q", tc.password)
	}
}

type signupForm struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,strongpw"`
	PackageType string `json:"package_type" validate:"omitempty,is-package-type"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&signupForm{Email: "not-an-email", Password: "weak"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "password")
}

func TestValidatePackageTypeRule(t *testing.T) {
	v := New()

	valid := &signupForm{Email: "a@b.com", Password: "Sup3r$ecret", PackageType: "business"}
	assert.NoError(t, v.Validate(valid))

	invalid := &signupForm{Email: "a@b.com", Password: "Sup3r$ecret", PackageType: "enterprise"}
	err := v.Validate(invalid)
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "package_type")
}
