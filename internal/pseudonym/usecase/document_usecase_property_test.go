package usecase

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pseudonymDomain "github.com/allisson/pseudonymizer/internal/pseudonym/domain"
)

var allPIIFields = []string{"Name", "DOB", "ID", "Date", "Admission_Date", "Discharge_Date", "Address"}

// genDocument generates documents of a known type whose PII holds plain
// (non-prefixed) strings or nulls, including fields outside the declared set.
func genDocument() gopter.Gen {
	typeGen := gen.OneConstOf(
		string(pseudonymDomain.MedicalReport),
		string(pseudonymDomain.LabReport),
		string(pseudonymDomain.DischargeSummary),
		string(pseudonymDomain.AdmissionSlip),
	)
	valueGen := gen.PtrOf(gen.AlphaString())

	return gopter.CombineGens(typeGen, gen.SliceOfN(len(allPIIFields), valueGen), gen.AlphaString()).
		Map(func(values []any) pseudonymDomain.Document {
			pii := make(map[string]any, len(allPIIFields))
			for i, v := range values[1].([]*string) {
				if v == nil {
					pii[allPIIFields[i]] = nil
					continue
				}
				pii[allPIIFields[i]] = *v
			}
			return pseudonymDomain.Document{
				"Document_Type": values[0].(string),
				"PII":           pii,
				"Notes":         values[2].(string),
			}
		})
}

func TestDocumentUseCase_Properties(t *testing.T) {
	ctx := context.Background()
	kit := newTestKit(t, Options{})

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("deidentify is idempotent", prop.ForAll(
		func(doc pseudonymDomain.Document) bool {
			once, err := kit.useCase.Deidentify(ctx, doc)
			if err != nil {
				return false
			}
			twice, err := kit.useCase.Deidentify(ctx, once)
			return err == nil && reflect.DeepEqual(once, twice)
		},
		genDocument(),
	))

	properties.Property("reidentify leaves plaintext documents unchanged", prop.ForAll(
		func(doc pseudonymDomain.Document) bool {
			out, err := kit.useCase.Reidentify(ctx, doc)
			return err == nil && reflect.DeepEqual(doc, out)
		},
		genDocument(),
	))

	properties.Property("reidentify inverts deidentify", prop.ForAll(
		func(doc pseudonymDomain.Document) bool {
			out, err := kit.useCase.Deidentify(ctx, doc)
			if err != nil {
				return false
			}
			restored, err := kit.useCase.Reidentify(ctx, out)
			return err == nil && reflect.DeepEqual(doc, restored)
		},
		genDocument(),
	))

	properties.Property("only declared fields change", prop.ForAll(
		func(doc pseudonymDomain.Document) bool {
			out, err := kit.useCase.Deidentify(ctx, doc)
			if err != nil {
				return false
			}
			declared, _ := pseudonymDomain.FieldsFor(doc.Type())
			in := doc["PII"].(map[string]any)
			got := out["PII"].(map[string]any)
			for _, field := range allPIIFields {
				isDeclared := false
				for _, d := range declared {
					if d == field {
						isDeclared = true
					}
				}
				if !isDeclared && got[field] != in[field] {
					return false
				}
				if isDeclared && in[field] != nil && !pseudonymDomain.IsToken(got[field].(string)) {
					return false
				}
			}
			return out["Notes"] == doc["Notes"] && out["Document_Type"] == doc["Document_Type"]
		},
		genDocument(),
	))

	properties.TestingRun(t)
}

func TestDocumentUseCase_CrossTypeIsolation(t *testing.T) {
	ctx := context.Background()
	kit := newTestKit(t, Options{})

	tokens := make(map[string]bool)
	for _, docType := range pseudonymDomain.DocumentTypes() {
		out, err := kit.useCase.Deidentify(ctx, pseudonymDomain.Document{
			"Document_Type": string(docType),
			"PII":           map[string]any{"Name": "Jane Doe"},
		})
		require.NoError(t, err)
		tokens[out["PII"].(map[string]any)["Name"].(string)] = true
	}

	assert.Len(t, tokens, 1)
	assert.Equal(t, 1, kit.repo.len())
}

func TestDocumentUseCase_ConcurrentDeidentify(t *testing.T) {
	ctx := context.Background()
	kit := newTestKit(t, Options{})

	const workers = 16
	results := make([]pseudonymDomain.Document, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := kit.useCase.Deidentify(ctx, labReport())
			assert.NoError(t, err)
			results[i] = out
		}(i)
	}
	wg.Wait()

	for _, out := range results[1:] {
		assert.Equal(t, results[0], out)
	}
	assert.Equal(t, 4, kit.repo.len())

	restored, err := kit.useCase.Reidentify(ctx, results[0])
	require.NoError(t, err)
	assert.Equal(t, labReport(), restored)
}
