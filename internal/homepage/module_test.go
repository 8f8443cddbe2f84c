package homepage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateItemCustomRequiresTitle(t *testing.T) {
	err := validateItem(Item{ContentType: TypeCustom})
	require.Error(t, err)
	require.Contains(t, err.Error(), "customTitle")

	err = validateItem(Item{ContentType: TypeCustom, CustomTitle: "Hello"})
	require.NoError(t, err)
}

func TestValidateItemCustomRejectsReference(t *testing.T) {
	err := validateItem(Item{ContentType: TypeCustom, CustomTitle: "Hello", ReferenceID: ref(3)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "referenceId")
}

func TestValidateItemReferenceRequired(t *testing.T) {
	err := validateItem(Item{ContentType: TypePost})
	require.Error(t, err)
	require.Contains(t, err.Error(), "referenceId")

	err = validateItem(Item{ContentType: TypePost, ReferenceID: ref(0)})
	require.Error(t, err)

	err = validateItem(Item{ContentType: TypePost, ReferenceID: ref(12)})
	require.NoError(t, err)
}

func TestValidateItemUnknownType(t *testing.T) {
	err := validateItem(Item{ContentType: "banner"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "oneof")
}
