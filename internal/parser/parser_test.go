package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShared(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantAmount string
		wantPayer  string
		wantDesc   string
		wantPayees []string
		wantErr    error
	}{
		{
			name:       "single payee",
			body:       "600 jai dinner swaraj",
			wantAmount: "600",
			wantPayer:  "jai",
			wantDesc:   "dinner",
			wantPayees: []string{"swaraj"},
		},
		{
			name:       "two payees",
			body:       "90 akash lunch jai swaraj",
			wantAmount: "90",
			wantPayer:  "akash",
			wantDesc:   "lunch",
			wantPayees: []string{"jai", "swaraj"},
		},
		{
			name:       "non-alphabetic description words stay in the description",
			body:       "250.50 jai pizza#2 @office swaraj",
			wantAmount: "250.5",
			wantPayer:  "jai",
			wantDesc:   "pizza#2 @office",
			wantPayees: []string{"swaraj"},
		},
		{
			name:       "plain-word description is misread",
			body:       "50 jai team lunch alex",
			wantAmount: "50",
			wantPayer:  "jai",
			wantDesc:   "team",
			wantPayees: []string{"lunch", "alex"},
		},
		{
			name:       "quoted description",
			body:       `60 akash "lunch office" jai swaraj`,
			wantAmount: "60",
			wantPayer:  "akash",
			wantDesc:   "lunch office",
			wantPayees: []string{"jai", "swaraj"},
		},
		{
			name:       "comma ends the description",
			body:       "50 jai team lunch, alex, bob",
			wantAmount: "50",
			wantPayer:  "jai",
			wantDesc:   "team lunch",
			wantPayees: []string{"alex", "bob"},
		},
		{
			name:       "trailing dot amount",
			body:       "5. jai tea swaraj",
			wantAmount: "5",
			wantPayer:  "jai",
			wantDesc:   "tea",
			wantPayees: []string{"swaraj"},
		},
		{name: "non-numeric amount", body: "abc jai dinner swaraj", wantErr: ErrMalformedAmount},
		{name: "negative amount", body: "-5 jai dinner swaraj", wantErr: ErrMalformedAmount},
		{name: "zero amount", body: "0 jai dinner swaraj", wantErr: ErrMalformedAmount},
		{name: "empty body", body: "", wantErr: ErrMalformedAmount},
		{name: "payer with punctuation", body: "600 jai! dinner swaraj", wantErr: ErrMalformedPayer},
		{name: "missing payer", body: "600", wantErr: ErrMalformedPayer},
		{name: "only description", body: "600 jai dinner", wantErr: ErrInsufficientPayees},
		{name: "no alphabetic payee", body: "600 jai dinner 42", wantErr: ErrInsufficientPayees},
		{name: "nothing after payer", body: "600 jai", wantErr: ErrInsufficientPayees},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseShared(tt.body)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAmount, got.Amount.String())
			assert.Equal(t, tt.wantPayer, got.Payer)
			assert.Equal(t, tt.wantDesc, got.Description)
			assert.Equal(t, tt.wantPayees, got.Payees)
		})
	}
}

func TestSplitTokensReconstructsInput(t *testing.T) {
	inputs := []string{
		"dinner swaraj",
		"lunch jai swaraj",
		"team lunch alex",
		"2 pizzas jai",
		"#1 $2 %3",
		"a",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			tokens := strings.Fields(in)
			desc, payees := SplitTokens(tokens)

			joined := append(append([]string{}, desc...), payees...)
			assert.Equal(t, tokens, joined)
			assert.NotEmpty(t, desc, "first token always belongs to the description")
		})
	}
}

func TestParseExpense(t *testing.T) {
	amount, category, err := ParseExpense("150  cab   home")
	require.NoError(t, err)
	assert.Equal(t, "150", amount.String())
	assert.Equal(t, "cab home", category)

	_, category, err = ParseExpense("20")
	require.NoError(t, err)
	assert.Equal(t, "misc", category)

	_, _, err = ParseExpense("lunch 20")
	assert.ErrorIs(t, err, ErrMalformedAmount)
}
