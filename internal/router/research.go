package router

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jfbinTECHA/zetav10/internal/session"
)

// topicURLs is the static reference-URL table for known research topics.
var topicURLs = map[string][]string{
	"react": {
		"https://reactjs.org/",
		"https://react.dev/",
		"https://github.com/facebook/react",
	},
	"javascript": {
		"https://developer.mozilla.org/en-US/docs/Web/JavaScript",
		"https://javascript.info/",
		"https://github.com/airbnb/javascript",
	},
	"python": {
		"https://www.python.org/",
		"https://docs.python.org/3/",
		"https://github.com/TheAlgorithms/Python",
	},
	"ai": {
		"https://en.wikipedia.org/wiki/Artificial_intelligence",
		"https://www.deeplearning.ai/",
		"https://github.com/microsoft/AI-For-Beginners",
	},
	"web development": {
		"https://developer.mozilla.org/",
		"https://web.dev/",
		"https://github.com/microsoft/Web-Dev-For-Beginners",
	},
	"machine learning": {
		"https://scikit-learn.org/",
		"https://www.tensorflow.org/",
		"https://github.com/ageron/handson-ml2",
	},
	"nextjs": {
		"https://nextjs.org/",
		"https://github.com/vercel/next.js",
	},
	"tailwind": {
		"https://tailwindcss.com/",
		"https://github.com/tailwindlabs/tailwindcss",
	},
	"tutorial": {
		"https://www.youtube.com/results?search_query=programming+tutorial",
		"https://www.youtube.com/c/TraversyMedia",
		"https://github.com/microsoft/Web-Dev-For-Beginners",
	},
	"coding": {
		"https://www.youtube.com/results?search_query=coding+for+beginners",
		"https://www.youtube.com/c/Freecodecamp",
		"https://github.com/TheAlgorithms/Python",
	},
}

// searchURLs returns the reference URLs for a topic, constructing generic
// search URLs for topics outside the static table.
func searchURLs(topic string) []string {
	if urls, ok := topicURLs[topic]; ok {
		return urls
	}
	return []string{
		"https://en.wikipedia.org/wiki/" + strings.ReplaceAll(topic, " ", "_"),
		"https://www.google.com/search?q=" + url.QueryEscape(topic),
		"https://duckduckgo.com/?q=" + url.QueryEscape(topic),
	}
}

func (r *Router) handleResearch(req *Request) Outcome {
	topic := strings.ToLower(strings.TrimSpace(r.researchRe.FindStringSubmatch(req.Raw)[1]))
	urls := searchURLs(topic)
	req.Ctx.LastTopic = session.TopicResearch
	req.Ctx.ResearchTopic = topic

	var notes strings.Builder
	if containsAny(strings.Join(urls, " "), "github.com") {
		notes.WriteString("\n\nPro tip: GitHub URLs will automatically fetch README files for code learning!")
	}
	if containsAny(strings.Join(urls, " "), "youtube.com") {
		notes.WriteString("\n\nYouTube links will extract video metadata and descriptions for learning!")
	}

	reply := fmt.Sprintf("I'll help you research %q. Here are some relevant URLs to scrape for information:\n\n%s\n\nUse the data scraper above to gather information from these sites, then tell me \"learn %s\" to incorporate the knowledge.%s",
		topic, bulletList(urls), topic, notes.String())
	return Outcome{Reply: reply}
}
