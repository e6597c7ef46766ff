package export

import (
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"expensetracker/internal/core"
)

const documentRule = "----------------------------"

// ExpenseDocument encodes an expense as a BSON document with the same field
// names a document store would use.
func ExpenseDocument(e core.Expense) (bson.Raw, error) {
	amount, err := primitive.ParseDecimal128(e.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("expense %d: encode amount: %w", e.ID, err)
	}
	doc := bson.D{
		{Key: "_id", Value: e.ID},
		{Key: "Date", Value: primitive.NewDateTimeFromTime(e.Date.Time)},
		{Key: "Amount", Value: amount},
		{Key: "Category", Value: e.Category},
		{Key: "Description", Value: e.Description},
	}
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("expense %d: marshal bson: %w", e.ID, err)
	}
	return raw, nil
}

// WriteDocuments prints each expense as its BSON document in extended JSON.
func WriteDocuments(w io.Writer, expenses []core.Expense) error {
	fmt.Fprintln(w, "=== BSON Representation ===")
	fmt.Fprintln(w)
	for _, e := range expenses {
		raw, err := ExpenseDocument(e)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, raw.String())
		fmt.Fprintln(w, documentRule)
	}
	return nil
}

// DocumentSize reports the encoded size of every document, the figure a
// document store pays on disk before compression.
func DocumentSize(expenses []core.Expense) (int, error) {
	total := 0
	for _, e := range expenses {
		raw, err := ExpenseDocument(e)
		if err != nil {
			return 0, err
		}
		total += len(raw)
	}
	return total, nil
}
