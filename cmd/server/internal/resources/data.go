package resources

import "github.com/zhaoqin88/roadgen/cmd/server/internal/models"

// catalog 按分类组织的核验资源。URL 均为长期稳定的官方或
// 社区站点,新增条目前先人工确认链接可达。
var catalog = map[string][]Entry{
	"html_css": {
		{Resource: models.Resource{Title: "MDN HTML Tutorial", Type: "Documentation", Platform: "MDN Web Docs", URL: "https://developer.mozilla.org/en-US/docs/Learn/HTML", Difficulty: "Beginner", EstimatedTime: "4-6 hours", IsFree: true}, Topics: []string{"HTML basics", "semantic HTML", "forms"}},
		{Resource: models.Resource{Title: "MDN CSS Tutorial", Type: "Documentation", Platform: "MDN Web Docs", URL: "https://developer.mozilla.org/en-US/docs/Learn/CSS", Difficulty: "Beginner", EstimatedTime: "6-8 hours", IsFree: true}, Topics: []string{"CSS basics", "flexbox", "grid", "responsive design"}},
		{Resource: models.Resource{Title: "freeCodeCamp Responsive Web Design", Type: "Interactive Course", Platform: "freeCodeCamp", URL: "https://www.freecodecamp.org/learn/responsive-web-design/", Difficulty: "Beginner", EstimatedTime: "300 hours", IsFree: true}, Topics: []string{"HTML5", "CSS3", "responsive design"}},
	},
	"javascript": {
		{Resource: models.Resource{Title: "MDN JavaScript Guide", Type: "Documentation", Platform: "MDN Web Docs", URL: "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Guide", Difficulty: "Beginner", EstimatedTime: "10-12 hours", IsFree: true}, Topics: []string{"JavaScript basics", "functions", "objects"}},
		{Resource: models.Resource{Title: "The Modern JavaScript Tutorial", Type: "Tutorial", Platform: "javascript.info", URL: "https://javascript.info/", Difficulty: "Beginner", EstimatedTime: "40+ hours", IsFree: true}, Topics: []string{"JavaScript", "DOM", "async"}},
		{Resource: models.Resource{Title: "Eloquent JavaScript", Type: "Book", Platform: "eloquentjavascript.net", URL: "https://eloquentjavascript.net/", Difficulty: "Intermediate", EstimatedTime: "30 hours", IsFree: true}, Topics: []string{"JavaScript", "programming fundamentals"}},
	},
	"typescript": {
		{Resource: models.Resource{Title: "TypeScript Handbook", Type: "Documentation", Platform: "typescriptlang.org", URL: "https://www.typescriptlang.org/docs/handbook/intro.html", Difficulty: "Intermediate", EstimatedTime: "8-10 hours", IsFree: true}, Topics: []string{"TypeScript", "types", "generics"}},
		{Resource: models.Resource{Title: "Total TypeScript Free Tutorials", Type: "Interactive Course", Platform: "totaltypescript.com", URL: "https://www.totaltypescript.com/tutorials", Difficulty: "Intermediate", EstimatedTime: "10 hours", IsFree: true}, Topics: []string{"TypeScript", "type transformations"}},
	},
	"react": {
		{Resource: models.Resource{Title: "React Official Tutorial", Type: "Documentation", Platform: "react.dev", URL: "https://react.dev/learn", Difficulty: "Beginner", EstimatedTime: "10-15 hours", IsFree: true}, Topics: []string{"React", "components", "hooks"}},
		{Resource: models.Resource{Title: "freeCodeCamp Front End Development Libraries", Type: "Interactive Course", Platform: "freeCodeCamp", URL: "https://www.freecodecamp.org/learn/front-end-development-libraries/", Difficulty: "Intermediate", EstimatedTime: "300 hours", IsFree: true}, Topics: []string{"React", "Redux", "Bootstrap"}},
	},
	"nodejs": {
		{Resource: models.Resource{Title: "Node.js Official Guides", Type: "Documentation", Platform: "nodejs.org", URL: "https://nodejs.org/en/learn", Difficulty: "Beginner", EstimatedTime: "6-8 hours", IsFree: true}, Topics: []string{"Node.js", "event loop", "modules"}},
		{Resource: models.Resource{Title: "Express.js Guide", Type: "Documentation", Platform: "expressjs.com", URL: "https://expressjs.com/en/guide/routing.html", Difficulty: "Beginner", EstimatedTime: "4-6 hours", IsFree: true}, Topics: []string{"Express", "routing", "middleware"}},
	},
	"python": {
		{Resource: models.Resource{Title: "Official Python Tutorial", Type: "Documentation", Platform: "python.org", URL: "https://docs.python.org/3/tutorial/", Difficulty: "Beginner", EstimatedTime: "10-15 hours", IsFree: true}, Topics: []string{"Python basics", "data structures"}},
		{Resource: models.Resource{Title: "Automate the Boring Stuff with Python", Type: "Book", Platform: "automatetheboringstuff.com", URL: "https://automatetheboringstuff.com/", Difficulty: "Beginner", EstimatedTime: "25 hours", IsFree: true}, Topics: []string{"Python", "automation", "scripting"}},
	},
	"ai_ml": {
		{Resource: models.Resource{Title: "Google Machine Learning Crash Course", Type: "Course", Platform: "Google Developers", URL: "https://developers.google.com/machine-learning/crash-course", Difficulty: "Intermediate", EstimatedTime: "15 hours", IsFree: true}, Topics: []string{"machine learning", "TensorFlow"}},
		{Resource: models.Resource{Title: "fast.ai Practical Deep Learning", Type: "Course", Platform: "fast.ai", URL: "https://course.fast.ai/", Difficulty: "Intermediate", EstimatedTime: "35 hours", IsFree: true}, Topics: []string{"deep learning", "PyTorch"}},
		{Resource: models.Resource{Title: "scikit-learn User Guide", Type: "Documentation", Platform: "scikit-learn.org", URL: "https://scikit-learn.org/stable/user_guide.html", Difficulty: "Intermediate", EstimatedTime: "12 hours", IsFree: true}, Topics: []string{"machine learning", "scikit-learn"}},
	},
	"cloud_devops": {
		{Resource: models.Resource{Title: "Docker Get Started Guide", Type: "Documentation", Platform: "docs.docker.com", URL: "https://docs.docker.com/get-started/", Difficulty: "Beginner", EstimatedTime: "4-6 hours", IsFree: true}, Topics: []string{"Docker", "containers", "images"}},
		{Resource: models.Resource{Title: "Kubernetes Basics Tutorial", Type: "Interactive Course", Platform: "kubernetes.io", URL: "https://kubernetes.io/docs/tutorials/kubernetes-basics/", Difficulty: "Intermediate", EstimatedTime: "6-8 hours", IsFree: true}, Topics: []string{"Kubernetes", "pods", "deployments"}},
		{Resource: models.Resource{Title: "Pro Git Book", Type: "Book", Platform: "git-scm.com", URL: "https://git-scm.com/book/en/v2", Difficulty: "Beginner", EstimatedTime: "15 hours", IsFree: true}, Topics: []string{"Git", "branching", "version control"}},
		{Resource: models.Resource{Title: "AWS Skill Builder Free Courses", Type: "Course", Platform: "AWS", URL: "https://skillbuilder.aws/", Difficulty: "Beginner", EstimatedTime: "varies", IsFree: true}, Topics: []string{"AWS", "cloud fundamentals"}},
	},
	"databases": {
		{Resource: models.Resource{Title: "PostgreSQL Tutorial", Type: "Tutorial", Platform: "postgresqltutorial.com", URL: "https://www.postgresqltutorial.com/", Difficulty: "Beginner", EstimatedTime: "12 hours", IsFree: true}, Topics: []string{"PostgreSQL", "SQL", "joins"}},
		{Resource: models.Resource{Title: "MongoDB University", Type: "Course", Platform: "MongoDB", URL: "https://learn.mongodb.com/", Difficulty: "Beginner", EstimatedTime: "10 hours", IsFree: true}, Topics: []string{"MongoDB", "documents", "aggregation"}},
	},
	"graphql": {
		{Resource: models.Resource{Title: "GraphQL Official Learn", Type: "Documentation", Platform: "graphql.org", URL: "https://graphql.org/learn/", Difficulty: "Intermediate", EstimatedTime: "4-6 hours", IsFree: true}, Topics: []string{"GraphQL", "queries", "schemas"}},
	},
	"data_science": {
		{Resource: models.Resource{Title: "Kaggle Learn", Type: "Interactive Course", Platform: "Kaggle", URL: "https://www.kaggle.com/learn", Difficulty: "Beginner", EstimatedTime: "20 hours", IsFree: true}, Topics: []string{"pandas", "data visualization", "machine learning"}},
		{Resource: models.Resource{Title: "Pandas User Guide", Type: "Documentation", Platform: "pandas.pydata.org", URL: "https://pandas.pydata.org/docs/user_guide/index.html", Difficulty: "Intermediate", EstimatedTime: "10 hours", IsFree: true}, Topics: []string{"pandas", "dataframes"}},
	},
	"golang": {
		{Resource: models.Resource{Title: "A Tour of Go", Type: "Interactive Course", Platform: "go.dev", URL: "https://go.dev/tour/", Difficulty: "Beginner", EstimatedTime: "6 hours", IsFree: true}, Topics: []string{"Go", "goroutines", "interfaces"}},
		{Resource: models.Resource{Title: "Go by Example", Type: "Tutorial", Platform: "gobyexample.com", URL: "https://gobyexample.com/", Difficulty: "Beginner", EstimatedTime: "8 hours", IsFree: true}, Topics: []string{"Go", "standard library"}},
	},
	"rust": {
		{Resource: models.Resource{Title: "The Rust Programming Language", Type: "Book", Platform: "rust-lang.org", URL: "https://doc.rust-lang.org/book/", Difficulty: "Intermediate", EstimatedTime: "30 hours", IsFree: true}, Topics: []string{"Rust", "ownership", "lifetimes"}},
	},
}
