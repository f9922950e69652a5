// Package prompts holds the system personas and prompt builders used by the
// LLM-backed services. Keeping them in one place makes wording changes
// reviewable without touching service logic.
package prompts

import "fmt"

// AnalystSystem is the persona for insight and explanation requests.
const AnalystSystem = `You are an expert automotive industry data analyst specializing in sales and inventory analytics for Product teams. Your role is to:
- Analyze automotive sales and inventory data
- Generate actionable insights from data patterns
- Explain trends, anomalies, and correlations
- Provide strategic recommendations
- Communicate findings clearly in business language

Always be specific, data-driven, and actionable in your responses.`

// SQLGeneratorSystem is the persona for natural language to SQL translation.
// The schema listing doubles as the model's only view of the database.
const SQLGeneratorSystem = `You are an expert SQL query generator for an automotive analytics database. The database has the following tables:

1. vehicles (id, vin, make, model, year, category, trim, msrp, specifications, created_at)
2. inventory (id, vehicle_id, warehouse_location, region, quantity_available, quantity_reserved, reorder_point, last_restocked, status, created_at, updated_at)
3. sales (id, vehicle_id, sale_date, quantity, unit_price, total_amount, customer_segment, region, salesperson_id, discount_applied, created_at)

Categories include: sedan, suv, truck, sports, offroad, compact
Regions include: West, Midwest, South, Northeast, Southeast
Customer segments: individual, fleet, dealer

Generate safe, read-only SQL queries (SELECT only). Always include appropriate JOINs when needed.`

// ReportGeneratorSystem is the persona for report generation.
const ReportGeneratorSystem = `You are an expert at creating professional business reports for automotive analytics. Your reports should:
- Start with an executive summary
- Include key metrics and findings
- Provide visual descriptions where helpful
- Offer actionable recommendations
- Be well-structured with clear sections
- Use business-appropriate language`

// RAGAnswerSystem is the persona for context-grounded question answering.
const RAGAnswerSystem = `You are an automotive analytics expert. Use the provided historical insights to inform your answers, but also apply your general knowledge about automotive sales and inventory analytics.`

// InsightsGeneration asks for 3-5 numbered insights over a data summary.
func InsightsGeneration(dataSummary, focusArea string) string {
	if focusArea == "" {
		focusArea = "general"
	}
	return fmt.Sprintf(`Analyze the following automotive %s data and generate 3-5 key insights:

%s

For each insight, provide a concise bullet point (maximum 20 words) that:
1. Highlights the main finding with specific numbers
2. Focuses on actionable insights
3. Uses storytelling to make it memorable

Format as numbered list (1., 2., 3., etc.) with crisp, impactful statements.
Focus on trends, anomalies, opportunities, and risks.`, focusArea, dataSummary)
}

// NLQuery asks for a read-only SQL translation of a question.
func NLQuery(question, schemaContext string) string {
	return fmt.Sprintf(`Convert the following natural language question into a SQL query:

Question: %s

Database Schema:
%s

Generate a safe, read-only SELECT query that answers the question. If the question cannot be answered with the available data, explain why.`, question, schemaContext)
}

// ReportGeneration builds the prompt for the given report type. Unknown types
// fall back to a generic comprehensive-analysis request.
func ReportGeneration(reportType, data, period string) string {
	switch reportType {
	case "executive":
		return fmt.Sprintf(`Create an executive summary report for automotive %s performance:

Data:
%s

The report should include:
1. Executive Summary (2-3 paragraphs)
2. Key Performance Indicators
3. Top 3 Achievements
4. Top 3 Challenges
5. Strategic Recommendations (3-5 items)

Keep it concise and executive-level.`, period, data)
	case "detailed":
		return fmt.Sprintf(`Create a detailed performance report for automotive %s:

Data:
%s

The report should include:
1. Overview
2. Sales Performance Analysis
3. Inventory Status Analysis
4. Regional Performance Breakdown
5. Product Category Analysis
6. Trends and Patterns
7. Recommendations
8. Conclusion

Provide comprehensive analysis with specific numbers.`, period, data)
	default:
		return fmt.Sprintf(`Create a %s report for automotive %s:

Data:
%s

Provide a comprehensive analysis appropriate for this report type.`, reportType, period, data)
	}
}

// DataExplanation asks for a storytelling summary of a query result.
func DataExplanation(data, question string) string {
	return fmt.Sprintf(`A user asked: %q

Here is the data result:
%s

Provide 3-5 concise bullet points (maximum 20 words each) that tell the story of this data.
Use storytelling techniques: highlight key findings, include specific numbers, and make it memorable.
Focus on the most important insights that answer the user's question.`, question, data)
}

// AnomalyExplanation asks the analyst to interpret detected anomalies.
func AnomalyExplanation(anomalyData string) string {
	return fmt.Sprintf(`The following anomalies were detected in automotive sales data:

%s

Analyze these anomalies and provide:
1. Possible explanations for each anomaly
2. Whether it's concerning or expected
3. Recommended actions if any`, anomalyData)
}

// TrendAnalysis asks the analyst to interpret a trend series.
func TrendAnalysis(trendData string) string {
	return fmt.Sprintf(`Analyze the following sales trend data:

%s

Provide:
1. Key trend observations
2. Growth patterns (positive/negative)
3. Inflection points or significant changes
4. Forecast implications
5. Strategic recommendations`, trendData)
}

// RAGAnswer grounds a question in retrieved historical insights.
func RAGAnswer(question, context string) string {
	if context == "" {
		context = "No relevant historical insights found."
	}
	return fmt.Sprintf(`Answer the following question about automotive analytics:

Question: %s

Relevant Historical Insights:
%s

Provide a comprehensive answer based on the question and any relevant insights.`, question, context)
}
