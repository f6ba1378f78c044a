package dashboard

// TotalPages is ceil(total/perPage); zero when there is nothing to page.
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// PageInRange reports whether page is a valid target for a collection of total items.
func PageInRange(page, total, perPage int) bool {
	return page >= 1 && page <= TotalPages(total, perPage)
}

func prevDisabled(current int) bool { return current == 1 }

func nextDisabled(current, perPage, total int) bool { return current*perPage >= total }
