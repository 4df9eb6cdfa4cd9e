package repository

import (
	"context"
	"fmt"

	"github.com/stemsi/certquiz-backend/internal/model"
)

// SeedQuestions returns the starter catalog of Airtel Payments Bank questions.
func SeedQuestions() []model.Question {
	return []model.Question{
		{
			Text:          "Under which act are payment banks registered?",
			Category:      model.CategoryRegulatory,
			OptionA:       "Companies Act, 2013 only",
			OptionB:       "Companies Act, 2013 and licensed under Section 22 of Banking Regulation Act, 1949",
			OptionC:       "Banking Regulation Act, 1949 only",
			OptionD:       "RBI Act, 1934",
			CorrectAnswer: "B",
			Explanation:   "Payment banks are registered as public limited companies under the Companies Act, 2013, and licensed under Section 22 of the Banking Regulation Act, 1949.",
		},
		{
			Text:          "What is the maximum balance limit for individual customers in payment banks?",
			Category:      model.CategoryRegulatory,
			OptionA:       "₹1,00,000",
			OptionB:       "₹2,00,000",
			OptionC:       "₹5,00,000",
			OptionD:       "No limit",
			CorrectAnswer: "B",
			Explanation:   "RBI has set the maximum balance limit for individual customers in payment banks at ₹2,00,000.",
		},
		{
			Text:          "Which insurance company has partnered with Airtel Payments Bank for car insurance?",
			Category:      model.CategoryServices,
			OptionA:       "Bharti AXA General Insurance",
			OptionB:       "HDFC ERGO General Insurance",
			OptionC:       "ICICI Lombard General Insurance",
			OptionD:       "Bajaj Allianz General Insurance",
			CorrectAnswer: "A",
			Explanation:   "Airtel Payments Bank has partnered with Bharti AXA General Insurance to provide car insurance services to its customers.",
		},
		{
			Text:          "What is Airtel Safe Pay?",
			Category:      model.CategoryTechnical,
			OptionA:       "A payment gateway service",
			OptionB:       "A digital payment security feature that protects against online frauds",
			OptionC:       "A mobile app for payments",
			OptionD:       "A credit card service",
			CorrectAnswer: "B",
			Explanation:   "Airtel Safe Pay is a digital payment security feature launched by Airtel Payments Bank to protect customers from online frauds, offering protection against phishing, stolen credentials, and phone cloning.",
		},
		{
			Text:          "What is the minimum balance requirement for Airtel Payments Bank account?",
			Category:      model.CategoryCustomer,
			OptionA:       "Zero minimum balance",
			OptionB:       "₹500",
			OptionC:       "₹1,000",
			OptionD:       "₹2,000",
			CorrectAnswer: "A",
			Explanation:   "Airtel Payments Bank offers zero minimum balance requirement for its savings accounts, making it accessible to all customers.",
		},
		{
			Text:          "When was Airtel Payments Bank launched?",
			Category:      model.CategoryServices,
			OptionA:       "January 2017",
			OptionB:       "March 2017",
			OptionC:       "December 2016",
			OptionD:       "April 2017",
			CorrectAnswer: "B",
			Explanation:   "Airtel Payments Bank was launched in March 2017 and was India's first payments bank to commence operations.",
		},
		{
			Text:          "Where is Airtel Payments Bank headquarters located?",
			Category:      model.CategoryServices,
			OptionA:       "Mumbai",
			OptionB:       "New Delhi",
			OptionC:       "Bangalore",
			OptionD:       "Gurgaon",
			CorrectAnswer: "B",
			Explanation:   "Airtel Payments Bank headquarters is located in New Delhi, India.",
		},
		{
			Text:          "What services can payment banks NOT provide?",
			Category:      model.CategoryRegulatory,
			OptionA:       "Savings accounts",
			OptionB:       "Current accounts",
			OptionC:       "Credit cards and loans",
			OptionD:       "Digital payments",
			CorrectAnswer: "C",
			Explanation:   "Payment banks cannot issue credit cards or provide loan advances as per RBI regulations.",
		},
		{
			Text:          "What is the current account maintenance charge for Airtel Payments Bank (2024-25)?",
			Category:      model.CategoryCustomer,
			OptionA:       "₹0 (Free)",
			OptionB:       "₹42 + 18% GST per quarter",
			OptionC:       "₹100 per quarter",
			OptionD:       "₹25 per month",
			CorrectAnswer: "B",
			Explanation:   "As of 2024-25, Airtel Payments Bank charges ₹42 + 18% GST per quarter as account maintenance charges.",
		},
		{
			Text:          "What is the minimum capital requirement for payment banks?",
			Category:      model.CategoryRegulatory,
			OptionA:       "₹50 crore",
			OptionB:       "₹100 crore",
			OptionC:       "₹200 crore",
			OptionD:       "₹500 crore",
			CorrectAnswer: "B",
			Explanation:   "RBI has set the minimum capital requirement for payment banks at ₹100 crore.",
		},
	}
}

// Seed inserts questions into r and returns how many were stored.
func Seed(ctx context.Context, r *QuestionRepository, questions []model.Question) (int, error) {
	for i := range questions {
		if err := r.Create(ctx, &questions[i]); err != nil {
			return i, fmt.Errorf("seed question %d: %w", i+1, err)
		}
	}
	return len(questions), nil
}
