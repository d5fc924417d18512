// Package prompts 各阶段使用的提示词模板。
//
// 模板使用 FString 语法，变量写作 {name}，正文中不能出现其他花括号。
package prompts

import (
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// 变量名
const (
	VarCompany     = "company"
	VarURL         = "url"
	VarText        = "text"
	VarFileName    = "file_name"
	VarIndustry    = "industry"
	VarSources     = "sources"
	VarContext     = "context"
	VarProfile     = "company_data"
	VarTrends      = "industry_trends"
	VarUseCases    = "ai_use_cases"
	VarCompetitor  = "competitor_analysis"
	VarStrategy    = "ai_strategy"
	VarPageTitle   = "title"
	VarDescription = "description"
)

// NotAvailable 可选字段为空时的占位文本
const NotAvailable = "Not available."

// 搜索查询模板，直接发给搜索引擎
const (
	CompanySearchQuery = "Find detailed company information for %s. Extract its official website, mission, services, and any AI-related initiatives. Prioritize official sources and provide links where available."
	TrendsQuery        = "Find the latest AI advancements, innovations, and emerging technologies in the %s sector. Include breakthroughs, adoption trends, and notable implementations by leading companies. Provide references and insights from credible sources."
	UseCasesQuery      = "Identify the most impactful AI use cases in the %s sector. Include real-world applications, automation improvements, cost-saving innovations, and data-driven decision-making processes. Provide case studies and examples of successful AI implementation."
	CompetitorQuery    = "Analyze how %s is leveraging AI in its business operations. Find recent reports, product innovations, automation strategies, and AI-driven transformations. Highlight competitive advantages gained through AI adoption. Provide references and sources."
)

const researcherSystem = "You are a business research analyst. Answer only from the provided search results. Always include sources in search results: cite them inline as [n] and list the URLs under a References heading. Respond in markdown."

// CompanySearch 根据搜索结果整理公司信息
var CompanySearch = prompt.FromMessages(schema.FString,
	schema.SystemMessage(researcherSystem),
	schema.UserMessage(`Find detailed company information for {company}. Extract its official website, mission, services, and any AI-related initiatives. Prioritize official sources and provide links where available.

Search results:
{sources}`),
)

// WebsiteExtract 从网站正文中抽取结构化业务信息
var WebsiteExtract = prompt.FromMessages(schema.FString,
	schema.SystemMessage("You extract content from company websites. Respond in markdown."),
	schema.UserMessage(`Extract all relevant business information from {url}, including mission statement, services, case studies, and AI-related content. Provide structured output.

Page title: {title}
Meta description: {description}

Page content:
{text}`),
)

// DescriptionSummary 总结用户手写的公司描述，要求 JSON 输出
var DescriptionSummary = prompt.FromMessages(schema.FString,
	schema.SystemMessage("You summarize user-written company descriptions. Reply with a single JSON object that has exactly one string field named summary. Output JSON only."),
	schema.UserMessage("Summarize the following company description: {text}. Focus on key services, mission, industry, and potential AI use cases where applicable."),
)

// DocumentInsights 基于检索到的文档片段提炼要点
var DocumentInsights = prompt.FromMessages(schema.FString,
	schema.SystemMessage("You extract and process data from uploaded PDFs and PPTs. Use only the document excerpts provided. Respond in markdown."),
	schema.UserMessage(`Analyze and extract key insights from the uploaded document: {file_name}. Summarize business operations, AI-related discussions, financial details, and relevant strategic insights.

Document excerpts:
{context}`),
)

// IndustryTrends 行业 AI 趋势
var IndustryTrends = prompt.FromMessages(schema.FString,
	schema.SystemMessage(researcherSystem),
	schema.UserMessage(`Find the latest AI advancements, innovations, and emerging technologies in the {industry} sector. Include breakthroughs, adoption trends, and notable implementations by leading companies. Provide references and insights from credible sources.

Search results:
{sources}`),
)

// AIUseCases 行业 AI 用例
var AIUseCases = prompt.FromMessages(schema.FString,
	schema.SystemMessage(researcherSystem),
	schema.UserMessage(`Identify the most impactful AI use cases in the {industry} sector. Include real-world applications, automation improvements, cost-saving innovations, and data-driven decision-making processes. Provide case studies and examples of successful AI implementation.

Search results:
{sources}`),
)

// CompetitorStrategy 竞品 AI 策略
var CompetitorStrategy = prompt.FromMessages(schema.FString,
	schema.SystemMessage(researcherSystem),
	schema.UserMessage(`Analyze how {company} is leveraging AI in its business operations. Find recent reports, product innovations, automation strategies, and AI-driven transformations. Highlight competitive advantages gained through AI adoption. Provide references and sources.

Search results:
{sources}`),
)

// AdoptionStrategy AI 落地策略
var AdoptionStrategy = prompt.FromMessages(schema.FString,
	schema.SystemMessage("Processes all collected data and generates structured AI adoption strategies. Respond in markdown."),
	schema.UserMessage(`You are an AI business strategist analyzing a company's potential AI adoption. Given the following:

- **Company Overview:** {company_data}
- **Industry Trends:** {industry_trends}
- **AI Use Cases:** {ai_use_cases}
- **Competitor AI Strategies:** {competitor_analysis}

Generate a structured AI adoption strategy that includes:
1. **AI Opportunities**: Identify key areas where AI can enhance operations, customer experience, or business efficiency.
2. **Technology Fit**: Recommend specific AI tools, models, or methodologies that fit this company's needs.
3. **Implementation Roadmap**: Step-by-step guidance on integrating AI, considering costs, scalability, and ROI.
4. **Future Scalability**: How AI adoption can evolve over time for long-term growth.

Provide structured insights with a logical flow and avoid generic statements. Use industry benchmarks where possible.`),
)

// IntegrationPlan AI 实施计划
var IntegrationPlan = prompt.FromMessages(schema.FString,
	schema.SystemMessage("Suggests AI implementation strategies based on industry insights and company operations. Respond in markdown."),
	schema.UserMessage(`Based on the AI adoption strategy:

- **Company Context:** {company_data}
- **AI Strategy Summary:** {ai_strategy}

Provide a structured AI implementation plan:
1. **Step-by-step AI Integration**: List phases of AI adoption, from pilot testing to full deployment.
2. **Technology & Infrastructure**: Recommend necessary AI tools, cloud platforms, and software.
3. **Workforce & Training**: Suggest ways to upskill employees for AI adoption.
4. **Risk & Compliance Considerations**: Highlight data security, compliance, and ethical concerns.
5. **KPIs for Success**: Define measurable AI performance indicators.

The output should be detailed, actionable, and specific to the business domain.`),
)

// RevenueOpportunities AI 营收机会
var RevenueOpportunities = prompt.FromMessages(schema.FString,
	schema.SystemMessage("Identifies AI-driven opportunities to enhance revenue and efficiency. Respond in markdown."),
	schema.UserMessage(`You are an AI business analyst tasked with identifying AI-driven revenue growth opportunities for:

- **Company Overview:** {company_data}
- **AI Strategy:** {ai_strategy}

Provide:
1. **AI Monetization Strategies**: Explain how AI can create new revenue streams (e.g., AI-driven products, services, or data monetization).
2. **Cost Reduction & Efficiency Gains**: Highlight AI automation that lowers operational costs.
3. **Market Expansion**: Discuss how AI can help enter new markets or scale offerings.
4. **Competitive Positioning**: Compare with industry leaders and suggest differentiation tactics.

Ensure detailed, actionable insights with real-world examples where applicable.`),
)

// OrNotAvailable 空字符串替换为占位文本
func OrNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
