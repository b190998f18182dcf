// Package form implements the submission pipeline behind the profit
// prediction form: it reads the four input fields through an injected View,
// keeps a live summary of the amounts, validates and posts the values to a
// Predictor, and reflects the outcome back onto the View as a prediction,
// a results panel, and short-lived notices.
//
// The pipeline owns no rendering. Surfaces (the HTML page, the terminal
// prompt) implement View and EventSource and hand them to New and Bind.
package form
