package extractor

const systemPrompt = `あなたはテキスト解析の専門家です。指示された形式のJSONのみを出力してください。`

const introUserPrompt = `以下のSlackの自己紹介投稿を解析し、JSONオブジェクト形式だけで出力してください。
説明文や前置きは一切不要です。整形済みのJSONだけを返してください。

出力形式:
{
  "name": "名前",
  "projects": ["プロジェクト1", "プロジェクト2"],
  "expertise": ["得意なこと1", "得意なこと2"],
  "github": "GitHubアドレスまたは空文字列"
}

投稿:
---
%s
---`
