package service

import (
	"fmt"

	"github.com/Dan9191/finance-service/internal/models"
)

const advicePromptTemplate = `You are an intelligent personal finance assistant.

You are given a user's financial data including:
- Monthly income
- Expense transactions (category, amount, date)
- Monthly budgets per category

Your task:
- Analyze the data carefully
- Answer the user's question with clear, actionable advice
- Be concise, friendly, and practical
- Do NOT give generic tips
- Base every suggestion strictly on the provided data

User question:
"%s"

Financial data:
%s

Output format:
- Short explanation (2-3 sentences)
- Bullet list of actionable suggestions
- Mention specific categories and amounts when relevant`

const reportPromptTemplate = `You are a professional financial analyst.

Analyze the user's monthly financial data and generate a clear, personalized report.

Input data includes:
- Total income
- Total expenses
- Category-wise spending
- Budget limits
- Comparison with previous month

Tasks:
- Summarize overall financial performance
- Identify best and worst spending categories
- Point out key problem areas
- Suggest realistic improvements
- Provide a simple action plan for next month

Rules:
- Be concise and data-driven
- Avoid generic advice
- Use specific categories and amounts
- Keep output short and practical

Financial data:
%s

Output format (JSON):
{
  "monthlySummary": "2-3 sentence summary of the month",
  "keyObservations": [
    "Observation 1",
    "Observation 2",
    "Observation 3"
  ],
  "problemAreas": [
    {
      "category": "Category name",
      "issue": "Description of the problem",
      "impact": "Impact description"
    }
  ],
  "aiRecommendations": [
    "Recommendation 1",
    "Recommendation 2",
    "Recommendation 3"
  ],
  "nextMonthActionPlan": [
    "Action step 1",
    "Action step 2",
    "Action step 3"
  ]
}

Only return valid JSON. Be specific with numbers and categories from the data.`

const anomalyPromptTemplate = `You are an AI system that detects unusual or risky spending behavior.

Given:
- Expense data for the current month
- Expense data for previous months
- Budget limits per category

Your task:
- Compare current spending with historical data
- Detect anomalies, spikes, or risky trends
- Identify categories with abnormal growth
- Predict if the user may exceed their budget

Rules:
- Highlight only meaningful insights
- Avoid repeating obvious information
- Explain the reason behind each insight

Financial data:
%s

Output format (JSON array):
[
  {
    "title": "Insight title",
    "explanation": "1-2 sentences explaining the insight",
    "riskLevel": "Low" | "Medium" | "High",
    "suggestedAction": "Actionable suggestion"
  }
]

Only return valid JSON array. If no significant anomalies are found, return an empty array.`

func advicePrompt(question string, data *models.AdviceData) (string, error) {
	body, err := indentJSON(data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(advicePromptTemplate, question, body), nil
}

func reportPrompt(data *models.MonthlyReportData) (string, error) {
	body, err := indentJSON(data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(reportPromptTemplate, body), nil
}

func anomalyPrompt(data *models.ExpenseHistory) (string, error) {
	body, err := indentJSON(data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(anomalyPromptTemplate, body), nil
}
