package templates

import (
	"context"
	"embed"
	"html/template"
	"io"
	"io/fs"

	"github.com/a-h/templ"
)

//go:embed views/*.html
var viewsFS embed.FS

//go:embed static
var staticFS embed.FS

var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{
		"home", "register", "login", "secrets", "submit", "password", "super_secret",
	} {
		pages[name] = template.Must(template.New(name).ParseFS(
			viewsFS,
			"views/layout.html",
			"views/"+name+".html",
		))
	}
}

// StaticFS returns the embedded stylesheet directory.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func page(name string, props any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pages[name].ExecuteTemplate(w, "layout", props)
	})
}

func HomePage(props HomePageProps) templ.Component {
	props.Title = "Secrets"
	return page("home", props)
}

func RegisterPage(props RegisterPageProps) templ.Component {
	props.Title = "Register"
	return page("register", props)
}

func LoginPage(props LoginPageProps) templ.Component {
	props.Title = "Login"
	return page("login", props)
}

func SecretsPage(props SecretsPageProps) templ.Component {
	props.Title = "Secrets"
	return page("secrets", props)
}

func SubmitPage(props SubmitPageProps) templ.Component {
	props.Title = "Submit a Secret"
	return page("submit", props)
}

func PasswordPage(props PasswordPageProps) templ.Component {
	props.Title = "Super Secret"
	return page("password", props)
}

func SuperSecretPage(props SuperSecretPageProps) templ.Component {
	props.Title = "Super Secret"
	return page("super_secret", props)
}
