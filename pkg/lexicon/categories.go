package lexicon

// registerProfilingLexicons adds the behavior-profiling word lists.
// These drive urgency/aggression scoring and payment-pressure tracking.
func (r *Registry) registerProfilingLexicons() {
	r.register(CategoryUrgency,
		"immediately", "urgent", "now", "quick", "fast", "hurry", "asap",
		"within 24 hours", "today only", "last chance", "time is running out",
		"deadline", "expire",
	)

	r.register(CategoryThreat,
		"blocked", "suspend", "freeze", "legal action", "police", "arrest",
		"court", "case", "fine", "penalty", "jail",
	)

	r.register(CategoryPayment,
		"send money", "transfer", "pay", "payment", "amount", "rupees",
		"rs", "inr", "deposit", "fee", "charges",
	)

	r.register(CategoryAuthority,
		"bank", "rbi", "reserve bank", "government", "police", "cyber cell",
		"income tax", "customs", "telecom",
	)
}

// registerDetectionLexicons adds the categories used only by the scam
// detection gate (urgency/threat/payment above are shared with it).
func (r *Registry) registerDetectionLexicons() {
	r.register(CategoryFinancial,
		"upi", "bank", "account", "transfer", "payment", "money",
		"rupees", "rs", "inr",
	)

	r.register(CategoryRegulator,
		"rbi", "reserve bank", "government", "customs", "income tax",
		"telecom", "trai",
	)

	r.register(CategoryReward,
		"lottery", "prize", "winner", "congratulations", "won", "lucky",
		"reward", "cashback",
	)

	r.register(CategoryVerification,
		"verify", "kyc", "update", "aadhar", "pan", "otp", "link", "click",
	)
}

// registerScamTypeLexicons adds the classifier vocabulary, one list per
// known scam type.
func (r *Registry) registerScamTypeLexicons() {
	r.register(CategoryUPIFraud,
		"upi", "gpay", "phonepe", "paytm", "send money", "transfer",
	)

	r.register(CategorySuspension,
		"blocked", "suspend", "deactivate", "freeze", "restricted",
	)

	r.register(CategoryKYC,
		"kyc", "verify", "update", "aadhar", "pan", "documents",
	)

	r.register(CategoryLottery,
		"lottery", "prize", "winner", "congratulations", "won", "lucky",
	)

	r.register(CategoryTechSupport,
		"virus", "hacked", "remote", "teamviewer", "anydesk",
	)

	r.register(CategoryLoanFraud,
		"loan", "emi", "credit", "pre-approved", "instant loan",
	)
}
