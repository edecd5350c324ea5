package email

const welcomeTemplate = `
<html><body>
<h2>Welcome, %s!</h2>
<p>Your EcoWork account is ready. Post a project or browse open demands to get started.</p>
</body></html>`

const applicationAcceptedTemplate = `
<html><body>
<h2>Good news</h2>
<p>Your application for <strong>%s</strong> was accepted. Open the app to message the other party.</p>
</body></html>`

const applicationRejectedTemplate = `
<html><body>
<p>Your application for <strong>%s</strong> was not selected this time.</p>
<p>Keep an eye on new open projects matching your specialties.</p>
</body></html>`
