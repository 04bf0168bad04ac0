package prompt

type GenreCategoryData struct {
	Name        string
	Description string
	IDList      string
}

type GenreClassifierData struct {
	Categories    []GenreCategoryData
	ExampleAnswer string
}

type GenreClassifierUserData struct {
	UserQuery string
}
