package intent

import "fmt"

const systemPrompt = "你是电商平台的搜索意图分析助手，负责把用户的自然语言查询整理成结构化的检索条件。"

// userPrompt asks for the five-field object that parseReply understands.
func userPrompt(query string) string {
	return fmt.Sprintf(`分析下面这条商品搜索，只输出一个 JSON 对象，不要附加任何解释。

查询: %q

字段说明:
- product_type: 商品类别，例如 "手机"、"耳机"、"服装"；无法判断时填 "其他"
- price_range: {"min": 最低价, "max": 最高价}，单位为元，未提及的一侧填 0
- brands: 提到的品牌列表
- keywords: 描述商品特性的词，例如 "降噪"、"轻薄"、"防水"
- sort_preference: 排序偏好，例如 "价格从低到高"；未提及填 null

格式:
{"product_type": "", "price_range": {"min": 0, "max": 0}, "brands": [], "keywords": [], "sort_preference": null}`, query)
}
