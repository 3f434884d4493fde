package model

// CreditCard is one recommended card, either finalized or discovered mid-conversation.
type CreditCard struct {
	Name           string   `json:"name"`
	Issuer         string   `json:"issuer,omitempty"`
	AnnualFee      *float64 `json:"annual_fee,omitempty"`
	Reason         string   `json:"reason,omitempty"`
	BestCategories []string `json:"best_categories,omitempty"`
	URL            string   `json:"url,omitempty"`
}

// CreditCardStack is the finalized recommendation of the credit advisor.
type CreditCardStack struct {
	Cards                     []CreditCard `json:"cards"`
	Strategy                  string       `json:"strategy,omitempty"`
	Summary                   string       `json:"summary,omitempty"`
	TotalEstimatedAnnualValue *float64     `json:"total_estimated_annual_value,omitempty"`
	TreeName                  string       `json:"tree_name,omitempty"`
}

// Loadout is the in-progress card set revealed while the advisor conversation runs.
type Loadout struct {
	Cards    []CreditCard `json:"cards"`
	TreeName *string      `json:"tree_name"`
}

// Clone returns a copy of the card that shares no memory with c.
func (c CreditCard) Clone() CreditCard {
	out := c
	if c.AnnualFee != nil {
		fee := *c.AnnualFee
		out.AnnualFee = &fee
	}
	if c.BestCategories != nil {
		out.BestCategories = append([]string(nil), c.BestCategories...)
	}
	return out
}

func cloneCards(cards []CreditCard) []CreditCard {
	out := make([]CreditCard, len(cards))
	for i, c := range cards {
		out[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the loadout.
func (l Loadout) Clone() Loadout {
	out := Loadout{Cards: cloneCards(l.Cards)}
	if l.TreeName != nil {
		name := *l.TreeName
		out.TreeName = &name
	}
	return out
}

// LoadoutFromStack projects a finalized stack onto the sidebar loadout.
func LoadoutFromStack(s CreditCardStack) Loadout {
	l := Loadout{Cards: cloneCards(s.Cards)}
	if s.TreeName != "" {
		name := s.TreeName
		l.TreeName = &name
	}
	return l
}

// CreditConversation is the restore payload of the credit advisor.
type CreditConversation struct {
	History        []ChatMessage    `json:"conversation_history"`
	FinalizedStack *CreditCardStack `json:"finalized_stack,omitempty"`
}

// Clone returns a copy of the stack that shares no memory with s.
func (s CreditCardStack) Clone() CreditCardStack {
	out := s
	out.Cards = cloneCards(s.Cards)
	if s.TotalEstimatedAnnualValue != nil {
		v := *s.TotalEstimatedAnnualValue
		out.TotalEstimatedAnnualValue = &v
	}
	return out
}
