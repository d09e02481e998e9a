package mail

import "html/template"

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<html>
<body>
  <h2>Welcome aboard!</h2>
  <p>You are now subscribed to our sports newsletter. Expect the biggest
  stories from the pitch, the court and the track in your inbox.</p>
  <p><a href="{{.SiteURL}}">Visit the site</a></p>
</body>
</html>`))

var newArticleTemplate = template.Must(template.New("new_article").Parse(`<html>
<body>
  <h2>{{.Title}}</h2>
  <p><strong>{{.Category}}</strong></p>
  <p>{{.Excerpt}}</p>
  <p><a href="{{.URL}}">Read the full story</a></p>
</body>
</html>`))

var newCommentTemplate = template.Must(template.New("new_comment").Parse(`<html>
<body>
  <h2>New comment awaiting review</h2>
  <p><strong>{{.Author}}</strong> commented on <em>{{.Article}}</em>:</p>
  <blockquote>{{.Body}}</blockquote>
</body>
</html>`))

var contactTemplate = template.Must(template.New("contact").Parse(`<html>
<body>
  <h2>{{.Subject}}</h2>
  <p>From: {{.Name}} &lt;{{.Email}}&gt;</p>
  <p>{{.Body}}</p>
</body>
</html>`))
